package appstate

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/example/pdfannotations/internal/document"
)

func TestSaveRoundTrip(t *testing.T) {
	s, _, path := readyScreen(t)
	s.SelectTool(ToolMarker)
	s.SelectColor(ColorYellow)
	if _, err := s.Drawer().Draw(1, []document.Point{{X: 50, Y: 50}, {X: 200, Y: 60}}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st := s.State()
	if st.Message != msgSaved || st.Saving || st.SaveHidden {
		t.Fatalf("unexpected state after save: %+v", st)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, err := s.Document().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(written, want) {
		t.Fatal("saved file differs from the document's serialization")
	}
	reloaded, err := document.Open(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	again, err := reloaded.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again, want) {
		t.Fatal("reloaded document serializes differently")
	}
	inks, err := reloaded.Inks(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(inks) != 1 || inks[0].Color != ColorYellow.RGBA() {
		t.Fatalf("unexpected inks after reload: %+v", inks)
	}
}

func TestSaveBusy(t *testing.T) {
	s, _, _ := readyScreen(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	original := writeFile
	writeFile = func(name string, data []byte, perm fs.FileMode) error {
		close(entered)
		<-release
		return original(name, data, perm)
	}
	t.Cleanup(func() { writeFile = original })

	first := make(chan error, 1)
	go func() { first <- s.Save() }()
	<-entered

	st := s.State()
	if !st.Saving || !st.SaveHidden {
		t.Fatalf("save in flight should show indicator and hide trigger: %+v", st)
	}
	if err := s.Save(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if st := s.State(); st.Saving || st.SaveHidden {
		t.Fatalf("idle UI not restored: %+v", st)
	}
}

func TestSaveWriteFailure(t *testing.T) {
	s, _, _ := readyScreen(t)
	diskFull := errors.New("no space left on device")
	original := writeFile
	writeFile = func(string, []byte, fs.FileMode) error { return diskFull }
	t.Cleanup(func() { writeFile = original })

	err := s.Save()
	var se *SaveError
	if !errors.As(err, &se) || se.Kind != KindWrite || !errors.Is(err, diskFull) {
		t.Fatalf("expected write SaveError, got %v", err)
	}
	st := s.State()
	if st.Message != msgFailed || st.Saving || st.SaveHidden {
		t.Fatalf("unexpected state after failure: %+v", st)
	}
}
