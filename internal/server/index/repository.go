// Package index records which catalog objects belong to which category.
// DynamoDB and SQL databases are supported.
package index

import (
	"context"

	"github.com/dmitrijs2005/postapp/internal/server/models"
)

type Repository interface {
	// Put inserts or replaces the record for img.S3ObjectKey.
	Put(ctx context.Context, img models.Image) error
	// Delete removes the record for key. Missing records are not an error.
	Delete(ctx context.Context, key string) error
	// KeysByCategory lists the object keys in category, oldest first for
	// SQL and in index order for DynamoDB. The result is never nil.
	KeysByCategory(ctx context.Context, category string) ([]models.ImageKey, error)
}
