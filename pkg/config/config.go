// Package config loads tool settings: built-in defaults overlaid with an
// optional .tomlfuse.toml or tomlfuse.toml from the working directory.
// Command-line flags override both in the CLI layer.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
)

// Settings is the resolved tool configuration
type Settings struct {
	// Document is the TOML source to bind; empty means locate it
	Document string `koanf:"document"`
	// Rules is the path to the namespace block file
	Rules string `koanf:"rules"`
	// Output is the generated file path; empty means stdout
	Output string `koanf:"output"`
	// Package is the package clause of the generated file
	Package string `koanf:"package"`
}

const (
	DefaultRules   = "tomlfuse.rules"
	DefaultOutput  = "config_gen.go"
	DefaultPackage = "config"
)

var configNames = []string{".tomlfuse.toml", "tomlfuse.toml"}

// Load resolves settings for the given directory: defaults first, then the
// first config file found there.
func Load(dir string) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"rules":   DefaultRules,
		"output":  DefaultOutput,
		"package": DefaultPackage,
	}, "."), nil); err != nil {
		return nil, fuseerr.Wrap(err, fuseerr.ErrConfigLoad, "failed to load defaults")
	}

	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fuseerr.Wrapf(err, fuseerr.ErrConfigLoad, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Config file loaded")
		break
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fuseerr.Wrap(err, fuseerr.ErrConfigLoad, "failed to decode config")
	}
	return &s, nil
}
