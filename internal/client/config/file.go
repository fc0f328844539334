package config

import (
	"github.com/dmitrijs2005/postapp/internal/flagx"
	"github.com/dmitrijs2005/postapp/internal/timex"
)

// FileConfig is the on-disk shape of Config. Pointer fields distinguish
// "absent" from zero so a file only overrides what it names.
type FileConfig struct {
	Region          *string         `json:"region" yaml:"region"`
	Timezone        *string         `json:"timezone" yaml:"timezone"`
	MaxMessages     *int            `json:"max_messages" yaml:"max_messages"`
	RefreshInterval *timex.Duration `json:"refresh_interval" yaml:"refresh_interval"`
	Debug           *bool           `json:"debug" yaml:"debug"`
	LambdaEndpoint  *string         `json:"lambda_endpoint" yaml:"lambda_endpoint"`
}

// Apply copies the fields present in fc onto c.
func (fc FileConfig) Apply(c *Config) {
	if fc.Region != nil {
		c.Region = *fc.Region
	}
	if fc.Timezone != nil {
		c.Timezone = *fc.Timezone
	}
	if fc.MaxMessages != nil {
		c.MaxMessages = *fc.MaxMessages
	}
	if fc.RefreshInterval != nil {
		c.RefreshInterval = fc.RefreshInterval.Duration
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if fc.LambdaEndpoint != nil {
		c.LambdaEndpoint = *fc.LambdaEndpoint
	}
}

func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	var fc FileConfig
	if err := flagx.DecodeFile(path, &fc); err != nil {
		return err
	}
	fc.Apply(cfg)
	return nil
}
