// Package config handles configuration for the image catalog service,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Index backends.
const (
	IndexDynamo = "dynamodb"
	IndexSQL    = "sql"
)

// Config holds runtime settings for the image catalog.
//
// Fields:
//   - HTTPAddr: bind address for the REST API.
//   - GRPCHealthAddr: bind address for the gRPC health service; empty disables it.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings. The endpoint
//     is only needed for S3-compatible servers such as MinIO.
//   - S3AccessKey / S3SecretKey: static credentials; empty uses the default chain.
//   - IndexBackend: "dynamodb" or "sql".
//   - DynamoTable / DynamoIndex / DynamoEndpoint: DynamoDB index settings. The
//     index is a GSI keyed on Category.
//   - DatabaseDSN: postgres:// URL or sqlite file name for the SQL index.
//   - MaxUploadMB: upload body cap.
//   - RateLimit / RateBurst: per-client request rate.
//   - PresignTTL: lifetime of presigned download URLs.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	HTTPAddr        string
	GRPCHealthAddr  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3AccessKey     string
	S3SecretKey     string
	IndexBackend    string
	DynamoTable     string
	DynamoIndex     string
	DynamoEndpoint  string
	DatabaseDSN     string
	MaxUploadMB     int64
	RateLimit       float64
	RateBurst       int
	PresignTTL      time.Duration
	ShutdownTimeout time.Duration
	Debug           bool
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.GRPCHealthAddr = ""
	c.S3Bucket = "images"
	c.S3Region = "us-west-2"
	c.S3BaseEndpoint = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.IndexBackend = IndexDynamo
	c.DynamoTable = "Images"
	c.DynamoIndex = "Category-index"
	c.DynamoEndpoint = ""
	c.DatabaseDSN = "images.db"
	c.MaxUploadMB = 10
	c.RateLimit = 10
	c.RateBurst = 20
	c.PresignTTL = 15 * time.Minute
	c.ShutdownTimeout = 5 * time.Second
	c.Debug = false
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// LoadConfig builds a Config from os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then values from an optional JSON file named by
// -c/-config, and finally command-line flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
