package config

import (
	"flag"
	"os"
	"slices"
	"time"

	"github.com/dmitrijs2005/postapp/internal/flagx"
)

// DefaultFile is picked up from the working directory when no -c is given.
const DefaultFile = "conf.json"

type Config struct {
	Region          string
	Timezone        string
	MaxMessages     int
	RefreshInterval time.Duration
	Debug           bool
	LambdaEndpoint  string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.Region = "us-west-2"
	c.Timezone = "Local"
	c.MaxMessages = 20
	c.RefreshInterval = 30 * time.Second
	c.Debug = false
	c.LambdaEndpoint = ""
}

// LoadConfig builds a Config from os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then the config file, then flags from args.
// An unreadable or invalid file is an error. -h yields flag.ErrHelp after
// the usage text is printed.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, flagx.ResolveConfigFile(args, DefaultFile)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FlagNames lists the flags RegisterFlags defines, in flagx.FilterArgs form.
var FlagNames = []string{"-r", "-t", "-n", "-f", "-d", "-e"}

// RegisterFlags defines the CLI flags on fs, bound to c. The refresh
// interval is read back with the returned function after fs.Parse.
func (c *Config) RegisterFlags(fs *flag.FlagSet) func() {
	fs.StringVar(&c.Region, "r", c.Region, "AWS region of the chat functions")
	fs.StringVar(&c.Timezone, "t", c.Timezone, "time zone for post timestamps")
	fs.IntVar(&c.MaxMessages, "n", c.MaxMessages, "number of posts to fetch")
	refresh := fs.Int("f", int(c.RefreshInterval.Seconds()), "auto refresh interval in seconds (0 disables)")
	fs.BoolVar(&c.Debug, "d", c.Debug, "debug logging")
	fs.StringVar(&c.LambdaEndpoint, "e", c.LambdaEndpoint, "Lambda endpoint override")

	return func() {
		c.RefreshInterval = time.Duration(*refresh) * time.Second
	}
}

func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("postapp", flag.ContinueOnError)
	done := cfg.RegisterFlags(fs)

	if err := fs.Parse(flagx.FilterArgs(args, slices.Concat(FlagNames, flagx.HelpFlags))); err != nil {
		return err
	}
	done()
	return nil
}
