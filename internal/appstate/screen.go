// Package appstate holds the annotation screen: tool and color selection,
// the palette panel, document loading and saving, and the shiny window
// that presents them.
package appstate

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/example/pdfannotations/assets"
	"github.com/example/pdfannotations/internal/document"
	"github.com/example/pdfannotations/internal/drawing"
	"github.com/example/pdfannotations/internal/fetch"
	"github.com/example/pdfannotations/internal/notify"
	"github.com/example/pdfannotations/internal/platform"
	"github.com/example/pdfannotations/internal/render"
	"github.com/example/pdfannotations/internal/theme"
)

// Toast texts.
const (
	msgSaved          = "Saved."
	msgFailed         = "Failed."
	msgDownloading    = "File not found, Downloading file."
	msgDownloadFailed = "Download failed."
)

const messageDuration = 2 * time.Second

// Status is the document lifecycle of the screen.
type Status int

const (
	StatusIdle Status = iota
	StatusDownloading
	StatusReady
	StatusDownloadFailed
	StatusLoadFailed
)

func (s Status) String() string {
	switch s {
	case StatusDownloading:
		return "downloading"
	case StatusReady:
		return "ready"
	case StatusDownloadFailed:
		return "download failed"
	case StatusLoadFailed:
		return "load failed"
	default:
		return "idle"
	}
}

// Screen is the single annotation screen.
type Screen struct {
	mu sync.Mutex

	remoteURL string
	localPath string
	fetcher   *fetch.Fetcher
	clock     func() time.Time
	notifier  *notify.Notifier
	theme     *theme.Theme
	title     string
	open      func(path string) (*document.Document, error)

	drawer     *drawing.Drawer
	view       *drawing.View
	recognizer *drawing.GestureRecognizer
	panel      Panel

	tool          Tool
	color         Color
	swatch        color.RGBA
	toolButtons   []*ToolButton
	colorButtons  []*ColorButton
	saveButton    *ActionButton
	paletteButton *ActionButton
	downloading   Indicator
	saving        Indicator

	status     Status
	err        error
	task       *fetch.Task
	doc        *document.Document
	generation atomic.Uint64

	page        int
	scroll      float64
	scrollFixed bool

	message      string
	messageUntil time.Time

	inFlight  atomic.Bool
	ready     chan struct{}
	readyOnce sync.Once
	started   bool
	updateCh  chan struct{}
	closeOnce sync.Once
}

// Option modifies a Screen during creation.
type Option func(*Screen)

// WithRemoteURL sets the document to download when no local copy exists.
func WithRemoteURL(u string) Option { return func(s *Screen) { s.remoteURL = u } }

// WithLocalPath sets the local copy that is loaded and saved.
func WithLocalPath(p string) Option { return func(s *Screen) { s.localPath = p } }

// WithFetcher overrides the downloader.
func WithFetcher(f *fetch.Fetcher) Option { return func(s *Screen) { s.fetcher = f } }

// WithClock overrides the time source used for animations and toasts.
func WithClock(fn func() time.Time) Option { return func(s *Screen) { s.clock = fn } }

// WithNotifier enables desktop notifications.
func WithNotifier(n *notify.Notifier) Option { return func(s *Screen) { s.notifier = n } }

// WithTheme sets the colors used by the window.
func WithTheme(t *theme.Theme) Option { return func(s *Screen) { s.theme = t } }

// WithTitle sets the window title.
func WithTitle(t string) Option { return func(s *Screen) { s.title = t } }

// New creates a Screen with the provided options. Nothing is fetched
// until Start.
func New(opts ...Option) *Screen {
	s := &Screen{
		fetcher:  fetch.New(),
		clock:    time.Now,
		theme:    theme.Default(),
		title:    platform.AppName,
		open:     document.Open,
		view:     &drawing.View{},
		tool:     ToolHand,
		color:    ColorRed,
		ready:    make(chan struct{}),
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	s.drawer = drawing.NewDrawer(s.color.RGBA())
	s.drawer.OnChange = s.documentChanged
	s.recognizer = drawing.NewGestureRecognizer(s.drawer)
	return s
}

// Start configures the UI and begins loading the document: static UI,
// drawing bridge color, download indicator, fetch. When the fetch resolves
// the document is loaded, the defaults (hand, red) are selected and the
// save indicator is turned off. Start only has an effect once.
func (s *Screen) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.configureStaticUI()
	s.drawer.SetColor(s.color.RGBA())
	s.downloading.Start()
	s.status = StatusDownloading
	if _, err := os.Stat(s.localPath); err != nil {
		s.showMessageLocked(msgDownloading)
	}
	s.task = s.fetcher.Start(ctx, s.remoteURL, s.localPath)
	task := s.task
	s.mu.Unlock()

	log.WithFields(log.Fields{"url": s.remoteURL, "path": s.localPath}).Debug("loading document")
	s.requestPaint()
	go s.await(task)
}

func (s *Screen) configureStaticUI() {
	s.toolButtons = s.toolButtons[:0]
	for _, t := range Tools() {
		tb := &ToolButton{tool: t, theme: s.theme, selected: t == s.tool}
		tool := t
		tb.onSelect = func() { s.SelectTool(tool) }
		s.toolButtons = append(s.toolButtons, tb)
	}
	s.colorButtons = s.colorButtons[:0]
	for _, c := range Colors() {
		cb := &ColorButton{color: c, theme: s.theme, selected: c == s.color}
		col := c
		cb.onSelect = func() { s.SelectColor(col) }
		s.colorButtons = append(s.colorButtons, cb)
	}
	s.swatch = s.color.RGBA()
	s.saveButton = &ActionButton{label: "Save", icon: assets.IconSave, theme: s.theme, onActivate: func() {
		go func() {
			if err := s.Save(); err != nil && !errors.Is(err, ErrBusy) {
				log.Printf("save: %v", err)
			}
		}()
	}}
	s.paletteButton = &ActionButton{label: "Colors", icon: assets.IconPalette, theme: s.theme, onActivate: s.TogglePalette}
}

func (s *Screen) await(task *fetch.Task) {
	h, err := task.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Lock()
			s.downloading.Stop()
			s.status = StatusIdle
			s.mu.Unlock()
			log.Printf("fetch cancelled")
			s.markReady()
			return
		}
		log.WithError(err).WithField("url", s.remoteURL).Error("download failed")
		s.finishLoad(nil, StatusDownloadFailed, err, msgDownloadFailed)
		return
	}
	doc, err := s.open(h.Path)
	if err != nil {
		log.WithError(err).WithField("path", h.Path).Error("load document")
		s.finishLoad(nil, StatusLoadFailed, err, msgFailed)
		return
	}
	log.WithFields(log.Fields{"path": h.Path, "cached": h.CacheHit, "pages": doc.PageCount()}).Info("document loaded")
	s.finishLoad(doc, StatusReady, nil, "")
	if !h.CacheHit {
		s.notifier.Download(h.Path, s.preview(doc, 0))
	}
}

func (s *Screen) finishLoad(doc *document.Document, status Status, err error, msg string) {
	s.mu.Lock()
	if doc != nil {
		s.doc = doc
		s.drawer.SetDocument(doc)
		s.generation.Add(1)
		s.scrollFixed = false
		s.fixScrollLocked()
	}
	s.downloading.Stop()
	s.selectToolLocked(ToolHand)
	s.selectColorLocked(ColorRed)
	s.saving.Stop()
	s.status = status
	s.err = err
	if msg != "" {
		s.showMessageLocked(msg)
	}
	s.mu.Unlock()
	s.markReady()
	s.requestPaint()
}

func (s *Screen) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Ready is closed once the initial fetch and load have resolved, whatever
// the outcome.
func (s *Screen) Ready() <-chan struct{} { return s.ready }

// Close cancels an unfinished fetch and detaches the drawing recognizer.
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		task := s.task
		s.mu.Unlock()
		task.Cancel()
		s.view.Detach(s.recognizer)
	})
}

// SelectTool makes t the only active tool. Drawing tools attach the
// gesture recognizer to the view; the hand detaches it so the view pans.
func (s *Screen) SelectTool(t Tool) {
	s.mu.Lock()
	s.selectToolLocked(t)
	s.mu.Unlock()
	s.requestPaint()
}

func (s *Screen) selectToolLocked(t Tool) {
	s.tool = t
	for _, b := range s.toolButtons {
		b.selected = b.tool == t
	}
	if t == ToolHand {
		s.view.Detach(s.recognizer)
		s.drawer.SetTool(drawing.ToolNone)
		return
	}
	s.drawer.SetTool(t.DrawingTool())
	s.view.Attach(s.recognizer)
}

// SelectColor makes c the stroke color and swatch, then closes the palette.
func (s *Screen) SelectColor(c Color) {
	s.mu.Lock()
	s.selectColorLocked(c)
	s.mu.Unlock()
	s.requestPaint()
}

func (s *Screen) selectColorLocked(c Color) {
	s.color = c
	s.swatch = c.RGBA()
	s.drawer.SetColor(c.RGBA())
	for _, b := range s.colorButtons {
		b.selected = b.color == c
	}
	s.panel.Hide(s.clock())
}

// TogglePalette shows or hides the color panel.
func (s *Screen) TogglePalette() {
	s.panel.Toggle(s.clock())
	s.requestPaint()
}

// Layout is called on every layout pass. A freshly loaded document is
// scrolled to the top of its first page exactly once, on the pass that
// happens when it arrives; later passes such as window resizes leave the
// position alone.
func (s *Screen) Layout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixScrollLocked()
}

func (s *Screen) fixScrollLocked() {
	if s.scrollFixed || s.doc == nil {
		return
	}
	s.page = 0
	s.scroll = 0
	s.scrollFixed = true
}

// GoToPage shows the zero-based page, clamped to the document.
func (s *Screen) GoToPage(page int) {
	s.mu.Lock()
	n := s.doc.PageCount()
	if page >= n {
		page = n - 1
	}
	if page < 0 {
		page = 0
	}
	if page != s.page {
		s.page = page
		s.scroll = 0
	}
	s.mu.Unlock()
	s.requestPaint()
}

// NextPage advances one page.
func (s *Screen) NextPage() { s.GoToPage(s.Page() + 1) }

// PrevPage goes back one page.
func (s *Screen) PrevPage() { s.GoToPage(s.Page() - 1) }

// Page returns the current page.
func (s *Screen) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// ScrollBy moves the current page by dy points, clamped to [0, max].
func (s *Screen) ScrollBy(dy, max float64) {
	s.mu.Lock()
	s.scroll += dy
	if s.scroll > max {
		s.scroll = max
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
	s.mu.Unlock()
	s.requestPaint()
}

// Document returns the loaded document, or nil.
func (s *Screen) Document() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Drawer returns the drawing engine fed by the screen's selections.
func (s *Screen) Drawer() *drawing.Drawer { return s.drawer }

// View returns the document view gestures are dispatched through.
func (s *Screen) View() *drawing.View { return s.view }

// Err returns the error behind a failed status.
func (s *Screen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot is a copy of the screen's observable state.
type Snapshot struct {
	Tool               Tool
	Color              Color
	Swatch             color.RGBA
	SelectedTools      []Tool
	SelectedColors     []Color
	RecognizerAttached bool
	PanelVisible       bool
	PanelShowing       bool
	PanelAlpha         float64
	Status             Status
	Downloading        bool
	Saving             bool
	SaveHidden         bool
	Page               int
	Scroll             float64
	ScrollFixed        bool
	Message            string
}

// State returns a Snapshot. Message is empty once the toast expired.
func (s *Screen) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Snapshot{
		Tool:               s.tool,
		Color:              s.color,
		Swatch:             s.swatch,
		RecognizerAttached: s.recognizer.Attached(),
		PanelVisible:       s.panel.Visible(),
		PanelShowing:       s.panel.Showing(),
		PanelAlpha:         s.panel.Alpha(),
		Status:             s.status,
		Downloading:        s.downloading.Animating(),
		Saving:             s.saving.Animating(),
		Page:               s.page,
		Scroll:             s.scroll,
		ScrollFixed:        s.scrollFixed,
	}
	for _, b := range s.toolButtons {
		if b.selected {
			st.SelectedTools = append(st.SelectedTools, b.tool)
		}
	}
	for _, b := range s.colorButtons {
		if b.selected {
			st.SelectedColors = append(st.SelectedColors, b.color)
		}
	}
	if s.saveButton != nil {
		st.SaveHidden = s.saveButton.hidden
	}
	if s.message != "" && s.clock().Before(s.messageUntil) {
		st.Message = s.message
	}
	return st
}

func (s *Screen) showMessageLocked(msg string) {
	s.message = msg
	s.messageUntil = s.clock().Add(messageDuration)
	log.Print(msg)
}

// documentChanged runs on the drawer's callback and may be reached while
// s.mu is held, so it must not lock.
func (s *Screen) documentChanged() {
	s.generation.Add(1)
	s.requestPaint()
}

// requestPaint asks the window, if any, to repaint.
func (s *Screen) requestPaint() {
	select {
	case s.updateCh <- struct{}{}:
	default:
	}
}

// preview renders a page for notifications.
func (s *Screen) preview(doc *document.Document, page int) image.Image {
	box, err := doc.MediaBox(page)
	if err != nil {
		return nil
	}
	inks, err := doc.Inks(page)
	if err != nil {
		return nil
	}
	return render.PageImage(box, inks, 128)
}
