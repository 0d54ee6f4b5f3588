package config

import (
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first configuration file found, or returns the defaults
// with environment overrides applied.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		cfg := New()
		ApplyEnv(cfg)
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".pdfannotations.toml")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where `config save` writes when no path is given.
func (l *Loader) DefaultPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	return searchPaths()[0]
}

func searchPaths() []string {
	home, _ := os.UserHomeDir()
	defaultXDG := filepath.Join(home, ".config")
	xdg := defaultXDG
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		xdg = v
	}
	paths := []string{filepath.Join(xdg, "pdfannotations", "config.toml")}
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "pdfannotations", "config.toml"))
	}
	return paths
}
