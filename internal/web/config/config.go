// Package config loads settings for the PostApp web application: the chat
// settings shared with the CLI plus the listen address and session secret.
//
// Precedence is defaults, then the file named by -c/-config (JSON, or YAML
// for .yaml/.yml), then flags:
//
//	-a string   listen address (default ":4567")
//	-s string   session secret; a random key is used when empty
//	-r -t -n -f -d -e as for the CLI
package config

import (
	"flag"
	"os"
	"slices"

	clientconfig "github.com/dmitrijs2005/postapp/internal/client/config"
	"github.com/dmitrijs2005/postapp/internal/flagx"
)

type Config struct {
	clientconfig.Config

	Addr          string
	SessionSecret string
}

func (c *Config) LoadDefaults() {
	c.Config.LoadDefaults()
	c.Addr = ":4567"
	c.SessionSecret = ""
}

// FileConfig is the on-disk shape. The chat keys sit at the top level next
// to addr and session_secret.
type FileConfig struct {
	clientconfig.FileConfig `yaml:",inline"`

	Addr          *string `json:"addr" yaml:"addr"`
	SessionSecret *string `json:"session_secret" yaml:"session_secret"`
}

func (fc FileConfig) Apply(c *Config) {
	fc.FileConfig.Apply(&c.Config)
	if fc.Addr != nil {
		c.Addr = *fc.Addr
	}
	if fc.SessionSecret != nil {
		c.SessionSecret = *fc.SessionSecret
	}
}

func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFileFlag(args); path != "" {
		var fc FileConfig
		if err := flagx.DecodeFile(path, &fc); err != nil {
			return nil, err
		}
		fc.Apply(cfg)
	}

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	done := cfg.Config.RegisterFlags(fs)
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session secret")

	allowed := slices.Concat([]string{"-a", "-s"}, clientconfig.FlagNames, flagx.HelpFlags)
	if err := fs.Parse(flagx.FilterArgs(args, allowed)); err != nil {
		return nil, err
	}
	done()
	return cfg, nil
}
