// Package config loads interpreter settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sergev/minilisp/lang"
)

// Config holds every setting of the command-line host.
type Config struct {
	// Boot is evaluated at startup when it exists.
	Boot string `toml:"boot"`
	// Project is evaluated with the project natives installed.
	Project string `toml:"project"`
	// History is the REPL history database. Empty selects the default
	// under the home directory.
	History string `toml:"history"`
	// Log is the log file. Empty discards log output.
	Log   string `toml:"log"`
	HTTPD HTTPD  `toml:"httpd"`
	Eval  Eval   `toml:"eval"`
}

// HTTPD configures the HTTP bridge.
type HTTPD struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// Eval configures the evaluator.
type Eval struct {
	MaxDepth int `toml:"max_depth"`
}

const defaultHistoryFile = ".minilisp_history.db"

// DefaultListen is the HTTP bridge address used when none is configured.
const DefaultListen = ":5553"

// Default returns the settings used when no file overrides them.
func Default() Config {
	return Config{
		Boot:    "boot.l",
		Project: "project.l",
		HTTPD: HTTPD{
			Enabled: true,
			Listen:  DefaultListen,
		},
		Eval: Eval{MaxDepth: lang.DefaultMaxDepth},
	}
}

// Load reads the file at path over the defaults. A missing file, or an
// empty path, yields the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if cfg.Eval.MaxDepth <= 0 {
		return cfg, fmt.Errorf("config %s: eval.max_depth must be positive", path)
	}
	return cfg, nil
}

// HistoryPath returns the history database location, falling back to a
// file in the home directory. It returns "" when no location is known.
func (c Config) HistoryPath() string {
	if c.History != "" {
		return c.History
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultHistoryFile)
}
