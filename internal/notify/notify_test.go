package notify

import (
	"image"
	"os"
	"strings"
	"testing"

	"github.com/example/pdfannotations/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	original := send
	send = func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		got = append(got, s)
		return nil
	}
	t.Cleanup(func() { send = original })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Save("/tmp/your.pdf", nil)
	n.Download("/tmp/your.pdf", nil)
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %+v", *got)
	}
	var nilNotifier *Notifier
	nilNotifier.SaveFailed("/tmp/your.pdf")
}

func TestSaveWithPreview(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save("/tmp/your.pdf", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	s := (*got)[0]
	if s.title != platform.AppName || s.body != "Saved /tmp/your.pdf" {
		t.Fatalf("unexpected notification %+v", s)
	}
	if !s.iconExisted {
		t.Fatal("preview icon should exist while the notification is sent")
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview should be removed afterwards, stat err=%v", err)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("PDFANNOTATIONS_NOTIFY_TITLE", "Annotator")
	t.Setenv("PDFANNOTATIONS_NOTIFY_SAVE_FAILED_TEXT", "Oops: %s")
	got := capture(t)
	n := New(LoadPreferences())
	n.Enable(EventSaveFailed, true)
	n.SaveFailed("/tmp/x.pdf")
	if len(*got) != 1 || (*got)[0].title != "Annotator" || !strings.HasPrefix((*got)[0].body, "Oops: ") {
		t.Fatalf("unexpected notifications %+v", *got)
	}
}
