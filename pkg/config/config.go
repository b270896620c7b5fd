// Package config loads agentstow's configuration: embedded defaults, an
// optional .agentstow.toml at the source root, and AGENTSTOW_* environment
// variables, merged in that order.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"agentstow/pkg/errors"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the per-repository config file, looked up at the
// source root.
const ConfigFileName = ".agentstow.toml"

// EnvPrefix is the prefix for environment variable overrides, e.g.
// AGENTSTOW_PATHS_TARGET maps to paths.target.
const EnvPrefix = "AGENTSTOW_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Config is the fully merged runtime configuration.
type Config struct {
	Paths     PathsConfig     `koanf:"paths" toml:"paths"`
	Install   InstallConfig   `koanf:"install" toml:"install"`
	Extension ExtensionConfig `koanf:"extension" toml:"extension"`
}

// PathsConfig locates the two roots every operation shares.
type PathsConfig struct {
	// Source is the directory whose immediate subdirectories are packages.
	Source string `koanf:"source" toml:"source"`
	// Target is the directory that receives one symlink per package.
	Target string `koanf:"target" toml:"target"`
}

// InstallConfig tunes install/uninstall behavior.
type InstallConfig struct {
	// Strict makes per-package conflicts force a non-zero exit.
	Strict bool `koanf:"strict" toml:"strict"`
}

// ExtensionConfig identifies the one externally-sourced package.
type ExtensionConfig struct {
	// Name is the extension's directory name under the target root.
	Name string `koanf:"name" toml:"name"`
	// URL is the git remote the extension is cloned from.
	URL string `koanf:"url" toml:"url"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Load builds the merged configuration. sourceRootHint is where to look for
// the config file; when empty the AGENTSTOW_ROOT env var and then the
// current directory are tried.
func Load(sourceRootHint string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. Config file at the source root, if present
	configPath := findConfigFile(sourceRootHint)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", configPath)
		}
	}

	// 3. Environment overrides
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

// Default returns the embedded defaults without file or env overrides.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return &Config{}
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return &Config{}
	}
	return &cfg
}

func findConfigFile(sourceRootHint string) string {
	candidates := []string{}
	if sourceRootHint != "" {
		candidates = append(candidates, filepath.Join(sourceRootHint, ConfigFileName))
	}
	if root := os.Getenv("AGENTSTOW_ROOT"); root != "" {
		candidates = append(candidates, filepath.Join(root, ConfigFileName))
	}
	candidates = append(candidates, ConfigFileName)

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
