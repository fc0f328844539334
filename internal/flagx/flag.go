// Package flagx holds the pieces shared by every binary's config loader:
// picking a subset of flags out of os.Args, locating the config file and
// decoding it as JSON or YAML.
package flagx

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// HelpFlags are passed through FilterArgs so a help request reaches the
// flag set, which prints its defaults and returns flag.ErrHelp.
var HelpFlags = []string{"-h", "-help", "--h", "--help"}

// FilterArgs keeps only the flags listed in allowedFlags, together with
// their values. Both "-c conf.json" and "--config=conf.json" forms are
// recognised; a following token that starts with "-" is never taken as a
// value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlag extracts the path given with -c or -config from args.
// Other arguments are ignored so each binary can parse its own flags later.
// The last occurrence wins; an empty string means none was given.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// ResolveConfigFile returns the -c/-config path when given. Otherwise it
// returns fallback if that file exists, or an empty string.
func ResolveConfigFile(args []string, fallback string) string {
	if p := ConfigFileFlag(args); p != "" {
		return p
	}
	if fallback == "" {
		return ""
	}
	if _, err := os.Stat(fallback); err == nil {
		return fallback
	}
	return ""
}

// DecodeFile reads path into v. Files ending in .yaml or .yml are decoded
// with yaml.v3, everything else as JSON.
func DecodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// IsHelp reports whether err came from a -h/-help flag.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
