// Package awsx loads aws.Config for the Lambda, S3 and DynamoDB clients.
package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

var loadDefaultAWSConfig = config.LoadDefaultConfig

// Options selects the region and, for MinIO or LocalStack, fixed credentials.
// Empty AccessKey keeps the default credential chain.
type Options struct {
	Region    string
	AccessKey string
	SecretKey string
}

// Load builds an aws.Config from the shared config files, the environment
// and opts.
func Load(ctx context.Context, opts Options) (aws.Config, error) {
	var fns []func(*config.LoadOptions) error
	if opts.Region != "" {
		fns = append(fns, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		fns = append(fns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, fns...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// Endpoint returns a pointer for an Options.BaseEndpoint field, or nil when
// endpoint is empty so the SDK resolves the regional default.
func Endpoint(endpoint string) *string {
	if endpoint == "" {
		return nil
	}
	return aws.String(endpoint)
}
