package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"flowbox/pkg/render"
)

// Config is the optional flowbox.toml file. Flags override what it sets.
type Config struct {
	ViewportWidth  int    `toml:"viewport_width"`
	ViewportHeight int    `toml:"viewport_height"`
	LogLevel       string `toml:"log_level"`

	Fonts FontsConfig `toml:"fonts"`
}

// FontsConfig names the font files. Dir is joined onto relative entries.
type FontsConfig struct {
	Dir        string `toml:"dir"`
	Regular    string `toml:"regular"`
	Bold       string `toml:"bold"`
	Italic     string `toml:"italic"`
	BoldItalic string `toml:"bold_italic"`
	Monospace  string `toml:"monospace"`
	MonoBold   string `toml:"mono_bold"`
}

func defaultConfig() Config {
	return Config{
		ViewportWidth:  1024,
		ViewportHeight: 768,
		LogLevel:       "warn",
	}
}

// loadConfig reads path, or ./flowbox.toml when path is empty. A missing
// default file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = "flowbox.toml"
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	return cfg, nil
}

// fontConfig turns the config's font section into a render.FontConfig,
// falling back to the bundled defaults for anything unset.
func (c Config) fontConfig() render.FontConfig {
	fc := render.DefaultFontConfig()
	join := func(name string) string {
		if name == "" {
			return ""
		}
		if c.Fonts.Dir != "" && !filepath.IsAbs(name) {
			return filepath.Join(c.Fonts.Dir, name)
		}
		return name
	}
	if v := join(c.Fonts.Regular); v != "" {
		fc.Regular = v
	}
	if v := join(c.Fonts.Bold); v != "" {
		fc.Bold = v
	}
	if v := join(c.Fonts.Italic); v != "" {
		fc.Italic = v
	}
	if v := join(c.Fonts.BoldItalic); v != "" {
		fc.BoldItalic = v
	}
	if v := join(c.Fonts.Monospace); v != "" {
		fc.Monospace = v
	}
	if v := join(c.Fonts.MonoBold); v != "" {
		fc.MonoBold = v
	}
	return fc
}
