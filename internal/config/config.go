// Package config loads the tool configuration from a TOML file under
// the user's config directory. A missing file is not an error; defaults
// apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config mirrors config.toml. Zero values mean "unset" and fall back
// to defaults at load time.
type Config struct {
	// Image is the source image path. Empty renders the built-in
	// placeholder.
	Image string `toml:"image"`
	// Height is the image height in terminal rows.
	Height int `toml:"height"`
	// Width is the image width in terminal columns; 0 derives it from
	// the image aspect ratio.
	Width int `toml:"width"`
	// Mode is "block" or "braille".
	Mode string `toml:"mode"`
	// Theme names the color theme for the info column.
	Theme string `toml:"theme"`
	// Info selects and orders the system info entries.
	Info []string `toml:"info"`
	// NoCache disables the render cache.
	NoCache bool `toml:"no_cache"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Height: 20,
		Mode:   "block",
		Theme:  "default",
		Info:   []string{"os", "host", "kernel", "uptime", "shell", "cpu", "memory", "disk"},
	}
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "self", "config.toml"), nil
}

// Load reads the file at path, filling unset fields from Default. A
// missing file returns Default; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}

	if cfg.Height <= 0 {
		cfg.Height = Default().Height
	}
	return cfg, nil
}
