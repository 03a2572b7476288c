// Package config loads tool settings from a TOML file.
//
// The file is optional: a missing file yields the defaults, and every
// setting can still be overridden by a command-line flag. Lookup follows
// the XDG convention (~/.config/sastopo2svg/config.toml).
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/sasutils/sastopo2svg/pkg/errors"
)

// Config holds the tool's persistent settings.
type Config struct {
	// Outdir is the default output directory for generated files.
	Outdir string `toml:"outdir"`

	// AssetsDir overrides the install-relative asset directory.
	AssetsDir string `toml:"assets_dir"`

	// Formats lists the artifact formats rendered by default.
	Formats []string `toml:"formats"`

	// Listen is the bind address for the serve command.
	Listen string `toml:"listen"`
}

// Default returns the built-in settings used when no config file exists.
func Default() Config {
	return Config{
		Outdir:  ".",
		Formats: []string{"svg", "html"},
		Listen:  "localhost:8080",
	}
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "sastopo2svg", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIOFailure, err, "resolve home directory")
	}
	return filepath.Join(home, ".config", "sastopo2svg", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults. A
// missing file is not an error; a file that fails to parse is.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}

// LoadDefault loads the config from the XDG location.
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return Load(path)
}
