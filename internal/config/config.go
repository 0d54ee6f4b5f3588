// Package config loads pdfannotations settings from TOML and the environment.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/example/pdfannotations/internal/theme"
)

const (
	// DefaultRemoteURL is the sample document fetched on first start.
	DefaultRemoteURL = "https://www.ets.org/Media/Tests/TOEFL/pdf/SampleQuestions.pdf"
	// DefaultFileName is the local copy's name inside the document directory.
	DefaultFileName = "your.pdf"
	envPrefix       = "PDFANNOTATIONS_"
)

// Notify holds desktop notification switches.
type Notify struct {
	Download bool `toml:"download"`
	Save     bool `toml:"save"`
}

// Config holds the application configuration.
type Config struct {
	RemoteURL       string                  `toml:"remote_url"`
	DocumentDir     string                  `toml:"document_dir"`
	FileName        string                  `toml:"file_name"`
	Theme           string                  `toml:"theme,omitempty"`
	LogLevel        string                  `toml:"log_level"`
	DownloadTimeout Duration                `toml:"download_timeout"`
	Notify          Notify                  `toml:"notify"`
	Themes          map[string]*theme.Theme `toml:"themes,omitempty"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		RemoteURL:   DefaultRemoteURL,
		DocumentDir: DefaultDocumentDir(),
		FileName:    DefaultFileName,
		LogLevel:    "info",
		Themes:      make(map[string]*theme.Theme),
	}
}

// DefaultDocumentDir returns $XDG_DOCUMENTS_DIR or ~/Documents.
func DefaultDocumentDir() string {
	if v := os.Getenv("XDG_DOCUMENTS_DIR"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Documents")
}

// LocalPath is where the fetched document is kept and saved.
func (c *Config) LocalPath() string {
	return filepath.Join(c.DocumentDir, c.FileName)
}

// Parse reads TOML configuration on top of the defaults and applies
// environment overrides.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := New()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Inline themes start from the default theme so partial tables work.
	var raw struct {
		Themes map[string]toml.Primitive `toml:"themes"`
	}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Themes = make(map[string]*theme.Theme, len(raw.Themes))
	for name, prim := range raw.Themes {
		t := theme.Default()
		t.Name = name
		if err := md.PrimitiveDecode(prim, t); err != nil {
			return nil, fmt.Errorf("parse config: theme %q: %w", name, err)
		}
		cfg.Themes[name] = t
	}
	ApplyEnv(cfg)
	return cfg, nil
}

// ApplyEnv overrides fields from PDFANNOTATIONS_* environment variables.
func ApplyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
			*dst = v
		}
	}
	set("REMOTE_URL", &cfg.RemoteURL)
	set("DOCUMENT_DIR", &cfg.DocumentDir)
	set("FILE_NAME", &cfg.FileName)
	set("THEME", &cfg.Theme)
	set("LOG_LEVEL", &cfg.LogLevel)
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("# encode config: %v\n", err)
	}
	return buf.String()
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
