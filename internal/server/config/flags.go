package config

import (
	"flag"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/postapp/internal/flagx"
)

var flagNames = []string{"-a", "-g", "-b", "-r", "-e", "-u", "-p", "-i", "-t", "-x", "-y", "-d", "-m", "-l", "-v"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC health bind address; empty disables it
//	-b string   S3 bucket name
//	-r string   AWS region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-i string   index backend, "dynamodb" or "sql"
//	-t string   DynamoDB table
//	-x string   DynamoDB category index
//	-y string   DynamoDB endpoint
//	-d string   SQL index DSN
//	-m int      max upload size, MB
//	-l float    requests per second per client
//	-v          debug logging
//
// Arguments are first filtered with flagx.FilterArgs so unrelated flags
// such as -c are ignored.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "gRPC health address")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "AWS region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.IndexBackend, "i", config.IndexBackend, "index backend (dynamodb|sql)")
	fs.StringVar(&config.DynamoTable, "t", config.DynamoTable, "DynamoDB table")
	fs.StringVar(&config.DynamoIndex, "x", config.DynamoIndex, "DynamoDB category index")
	fs.StringVar(&config.DynamoEndpoint, "y", config.DynamoEndpoint, "DynamoDB endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "SQL index DSN")
	fs.Int64Var(&config.MaxUploadMB, "m", config.MaxUploadMB, "max upload size (in MB)")
	fs.Float64Var(&config.RateLimit, "l", config.RateLimit, "requests per second per client")
	fs.BoolVar(&config.Debug, "v", config.Debug, "debug logging")

	if err := fs.Parse(flagx.FilterArgs(args, slices.Concat(flagNames, flagx.HelpFlags))); err != nil {
		return err
	}

	switch config.IndexBackend {
	case IndexDynamo, IndexSQL:
	default:
		return fmt.Errorf("unknown index backend %q", config.IndexBackend)
	}
	if config.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d MB", config.MaxUploadMB)
	}
	return nil
}
