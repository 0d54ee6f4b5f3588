package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/example/pdfannotations/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventDownload fires when the remote document has been fetched.
	EventDownload Event = "download"
	// EventSave fires when the annotated document is written to disk.
	EventSave Event = "save"
	// EventSaveFailed fires when writing the document fails.
	EventSaveFailed Event = "save_failed"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventDownload:   {Template: "Downloaded %s"},
			EventSave:       {Template: "Saved %s"},
			EventSaveFailed: {Template: "Could not save %s"},
		},
	}
}

// LoadPreferences reads overrides from PDFANNOTATIONS_NOTIFY_* variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PDFANNOTATIONS_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			p := prefs.Events[event]
			p.Template = v
			prefs.Events[event] = p
		}
	}
	apply("PDFANNOTATIONS_NOTIFY_DOWNLOAD_TEXT", EventDownload)
	apply("PDFANNOTATIONS_NOTIFY_SAVE_TEXT", EventSave)
	apply("PDFANNOTATIONS_NOTIFY_SAVE_FAILED_TEXT", EventSaveFailed)
	return prefs
}

// send is replaced in tests.
var send = platform.Notify

// Notifier sends desktop notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Download reports a finished download with an optional first-page preview.
func (n *Notifier) Download(path string, preview image.Image) {
	n.withPreview(EventDownload, displayPath(path), preview)
}

// Save reports a written document with an optional preview.
func (n *Notifier) Save(path string, preview image.Image) {
	n.withPreview(EventSave, displayPath(path), preview)
}

// SaveFailed reports a failed save.
func (n *Notifier) SaveFailed(path string) {
	n.dispatch(EventSaveFailed, displayPath(path), platform.Options{})
}

func (n *Notifier) withPreview(event Event, detail string, preview image.Image) {
	if !n.enabledFor(event) {
		return
	}
	opts := platform.Options{}
	if preview != nil {
		path, cleanup, err := createPreview(preview)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(event, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func displayPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return strings.TrimSpace(path)
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "pdfannotations-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
