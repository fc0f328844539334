// Package models holds the image catalog records.
package models

import "time"

// Image is one catalog record: an uploaded object and its category.
type Image struct {
	ImageLocation string `json:"ImageLocation" dynamodbav:"ImageLocation"`
	Category      string `json:"Category" dynamodbav:"Category"`
	S3ObjectKey   string `json:"S3ObjectKey" dynamodbav:"S3ObjectKey"`
}

// ImageKey is the projection returned by a category query.
type ImageKey struct {
	S3ObjectKey string `json:"S3ObjectKey" dynamodbav:"S3ObjectKey"`
}

// ObjectInfo is the stored object's metadata.
type ObjectInfo struct {
	Key           string            `json:"Key"`
	ContentType   string            `json:"ContentType,omitempty"`
	ContentLength int64             `json:"ContentLength"`
	ETag          string            `json:"ETag,omitempty"`
	LastModified  *time.Time        `json:"LastModified,omitempty"`
	Metadata      map[string]string `json:"Metadata,omitempty"`
}
