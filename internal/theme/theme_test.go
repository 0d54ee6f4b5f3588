package theme

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#E74C3C", color.RGBA{231, 76, 60, 255}, false},
		{"#00000080", color.RGBA{0, 0, 0, 128}, false},
		{" #ffffff ", color.RGBA{255, 255, 255, 255}, false},
		{"E74C3C", color.RGBA{}, true},
		{"#123", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseColor(%q) err = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if got != c.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	th, err := Parse(strings.NewReader("name = \"Mine\"\nbackground = \"#111111\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Mine" || th.Background != Hex(0x11, 0x11, 0x11, 255) {
		t.Fatalf("unexpected theme %+v", th)
	}
	if th.ToastText != Default().ToastText {
		t.Fatalf("missing key should keep default, got %v", th.ToastText)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader(`background = "red"`)); err == nil {
		t.Fatal("expected error for non-hex color")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Default()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	l := &Loader{}
	th, err := l.Load("default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), th); diff != "" {
		t.Fatalf("embedded default differs (-builtin +embedded):\n%s", diff)
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(file, []byte(`name = "FromFile"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgDir := filepath.Join(dir, "themes")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "sepia.toml"), []byte(`name = "Sepia"`), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{
		ConfigDir: cfgDir,
		Inline:    map[string]*Theme{"dark": {Name: "InlineDark"}},
	}

	cases := map[string]string{
		file:            "FromFile",
		"dark":          "InlineDark",
		"high_contrast": "High Contrast",
		"sepia":         "Sepia",
		"":              "Default",
	}
	for name, want := range cases {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name != want {
			t.Errorf("Load(%q).Name = %q, want %q", name, th.Name, want)
		}
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestNames(t *testing.T) {
	l := &Loader{Inline: map[string]*Theme{"mine": Default()}}
	want := []string{"dark", "default", "high_contrast", "mine"}
	if diff := cmp.Diff(want, l.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
