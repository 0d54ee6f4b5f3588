package theme

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.toml
var EmbeddedThemes embed.FS

const ext = ".toml"

// Parse reads a TOML theme. Keys left out keep their Default value.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	if _, err := toml.NewDecoder(r).Decode(t); err != nil {
		return nil, fmt.Errorf("theme: parse TOML: %w", err)
	}
	return t, nil
}

// Encode writes t as TOML.
func Encode(w io.Writer, t *Theme) error {
	return toml.NewEncoder(w).Encode(t)
}

// Loader resolves theme names to themes.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Inline holds themes defined in the configuration file.
	Inline map[string]*Theme
}

// NewLoader creates a Loader with the standard search directories.
func NewLoader(inline map[string]*Theme) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "pdfannotations", "themes"),
		SystemDir: "/usr/share/pdfannotations/themes",
		Inline:    inline,
	}
}

// Load finds a theme by path or name. Lookup order: an existing file path,
// inline configuration themes, embedded themes, ConfigDir, SystemDir.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(name)
	}

	if t, ok := l.Inline[name]; ok && t != nil {
		return t, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ext) {
		filename += ext
	}

	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err == nil {
			return parseFile(p)
		}
	}

	return nil, fmt.Errorf("theme %q not found", name)
}

// Names lists the embedded and inline theme names.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	entries, _ := fs.ReadDir(EmbeddedThemes, "defaults")
	for _, e := range entries {
		seen[strings.TrimSuffix(e.Name(), ext)] = true
	}
	for name := range l.Inline {
		seen[name] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
