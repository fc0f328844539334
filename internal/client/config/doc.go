// Package config loads runtime settings for the PostApp CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file given with -c/-config, or ./conf.json when it
//     exists. Files ending in .yaml/.yml are read as YAML, others as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-r string   AWS region of the chat functions
//	-t string   time zone for post timestamps ("Local" for the process zone)
//	-n int      number of posts to fetch
//	-f int      auto refresh interval in seconds (0 disables)
//	-d          debug logging to stderr
//	-e string   Lambda endpoint override (e.g. LocalStack)
//
// # File schema
//
//	{
//	  "region": "us-west-2",
//	  "timezone": "Europe/Riga",
//	  "max_messages": 20,
//	  "refresh_interval": "30s",
//	  "debug": false,
//	  "lambda_endpoint": ""
//	}
package config
