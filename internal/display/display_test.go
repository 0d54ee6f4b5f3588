package display

import (
	"errors"
	"image"
	"testing"
)

func fakeMonitors(t *testing.T, ms []Monitor, err error) {
	t.Helper()
	original := listMonitors
	listMonitors = func() ([]Monitor, error) { return ms, err }
	t.Cleanup(func() { listMonitors = original })
}

func TestPrimaryPrefersFlaggedMonitor(t *testing.T) {
	fakeMonitors(t, []Monitor{
		{Name: "DP-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Name: "HDMI-1", Rect: image.Rect(1920, 0, 4480, 1440), Primary: true},
	}, nil)
	m, err := Primary()
	if err != nil {
		t.Fatalf("Primary: %v", err)
	}
	if m.Name != "HDMI-1" {
		t.Fatalf("expected HDMI-1, got %q", m.Name)
	}
}

func TestPrimaryFallsBackToFirst(t *testing.T) {
	fakeMonitors(t, []Monitor{{Name: "eDP-1", Rect: image.Rect(0, 0, 1366, 768)}}, nil)
	m, err := Primary()
	if err != nil || m.Name != "eDP-1" {
		t.Fatalf("unexpected monitor %+v err=%v", m, err)
	}
}

func TestPrimaryNoMonitors(t *testing.T) {
	fakeMonitors(t, nil, nil)
	if _, err := Primary(); !errors.Is(err, errNoMonitors) {
		t.Fatalf("expected errNoMonitors, got %v", err)
	}
}

func TestWindowSize(t *testing.T) {
	fallback := image.Pt(800, 600)
	fakeMonitors(t, []Monitor{{Rect: image.Rect(0, 0, 1920, 1000), Primary: true}}, nil)

	got := WindowSize(0.5, image.Pt(100, 50), fallback)
	// 85% of 1000 = 850, page 800 high, 400 wide plus chrome.
	if want := image.Pt(500, 850); got != want {
		t.Fatalf("WindowSize = %v, want %v", got, want)
	}

	got = WindowSize(10, image.Pt(0, 0), fallback)
	if got.X != 1728 {
		t.Fatalf("width should clamp to 90%% of the monitor, got %d", got.X)
	}
}

func TestWindowSizeFallback(t *testing.T) {
	fallback := image.Pt(800, 600)
	fakeMonitors(t, nil, errors.New("no X server"))
	if got := WindowSize(0.77, image.Pt(10, 10), fallback); got != fallback {
		t.Fatalf("expected fallback, got %v", got)
	}
}
