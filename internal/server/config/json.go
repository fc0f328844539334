package config

import (
	"github.com/dmitrijs2005/postapp/internal/flagx"
	"github.com/dmitrijs2005/postapp/internal/timex"
)

// JsonConfig is the on-disk shape. Durations use timex.Duration, so both
// "15m" and integer nanoseconds are accepted. Absent keys keep the current
// value.
type JsonConfig struct {
	HTTPAddr        *string         `json:"http_addr" yaml:"http_addr"`
	GRPCHealthAddr  *string         `json:"grpc_health_addr" yaml:"grpc_health_addr"`
	S3Bucket        *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region        *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey     *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey     *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	IndexBackend    *string         `json:"index_backend" yaml:"index_backend"`
	DynamoTable     *string         `json:"dynamo_table" yaml:"dynamo_table"`
	DynamoIndex     *string         `json:"dynamo_index" yaml:"dynamo_index"`
	DynamoEndpoint  *string         `json:"dynamo_endpoint" yaml:"dynamo_endpoint"`
	DatabaseDSN     *string         `json:"database_dsn" yaml:"database_dsn"`
	MaxUploadMB     *int64          `json:"max_upload_mb" yaml:"max_upload_mb"`
	RateLimit       *float64        `json:"rate_limit" yaml:"rate_limit"`
	RateBurst       *int            `json:"rate_burst" yaml:"rate_burst"`
	PresignTTL      *timex.Duration `json:"presign_ttl" yaml:"presign_ttl"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	Debug           *bool           `json:"debug" yaml:"debug"`
}

// parseJson loads the file named by -c/-config, if any, into config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	c := &JsonConfig{}
	if err := flagx.DecodeFile(path, c); err != nil {
		return err
	}
	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.IndexBackend, c.IndexBackend)
	setString(&config.DynamoTable, c.DynamoTable)
	setString(&config.DynamoIndex, c.DynamoIndex)
	setString(&config.DynamoEndpoint, c.DynamoEndpoint)
	setString(&config.DatabaseDSN, c.DatabaseDSN)

	if c.MaxUploadMB != nil {
		config.MaxUploadMB = *c.MaxUploadMB
	}
	if c.RateLimit != nil {
		config.RateLimit = *c.RateLimit
	}
	if c.RateBurst != nil {
		config.RateBurst = *c.RateBurst
	}
	if c.PresignTTL != nil {
		config.PresignTTL = c.PresignTTL.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
