package appstate

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPanelShowAnimatesIn(t *testing.T) {
	var p Panel
	p.Show(t0)
	if !p.Visible() || p.Alpha() != 0 || !p.Animating() {
		t.Fatalf("show should unhide at alpha 0 and animate")
	}
	p.Step(t0.Add(PanelFade / 2))
	if !near(p.Alpha(), 0.5) {
		t.Fatalf("alpha at half time = %v", p.Alpha())
	}
	p.Step(t0.Add(PanelFade / 4))
	if p.Alpha() >= 0.25 {
		t.Fatalf("ease-in-out should start slowly, alpha = %v", p.Alpha())
	}
	if p.Step(t0.Add(PanelFade)) {
		t.Fatal("animation should be finished")
	}
	if p.Alpha() != 1 || !p.Visible() {
		t.Fatalf("expected fully visible, alpha %v", p.Alpha())
	}
}

func TestPanelDoubleToggleReturnsHidden(t *testing.T) {
	var p Panel
	p.Toggle(t0)
	p.Toggle(t0)
	p.Step(t0.Add(PanelFade))
	if p.Visible() || p.Alpha() != 0 {
		t.Fatalf("two toggles from hidden should settle hidden, alpha %v", p.Alpha())
	}

	p.Toggle(t0)
	p.Step(t0.Add(PanelFade))
	p.Toggle(t0.Add(PanelFade))
	p.Step(t0.Add(2 * PanelFade))
	if p.Visible() {
		t.Fatal("toggle from visible should settle hidden")
	}
}

func TestPanelRetargetsFromCurrentAlpha(t *testing.T) {
	var p Panel
	p.Toggle(t0)
	mid := t0.Add(PanelFade / 2)
	p.Toggle(mid)
	if !near(p.Alpha(), 0.5) {
		t.Fatalf("hide should start from the current alpha, got %v", p.Alpha())
	}
	// The remaining half of the distance takes half the fade.
	p.Step(mid.Add(PanelFade / 4))
	if !near(p.Alpha(), 0.25) {
		t.Fatalf("alpha = %v, want 0.25", p.Alpha())
	}
	if !p.Visible() {
		t.Fatal("panel stays visible while fading out")
	}
	p.Step(mid.Add(PanelFade / 2))
	if p.Visible() || p.Animating() {
		t.Fatal("panel should be hidden once the fade completes")
	}

	// Showing a fading-out panel turns it around without a jump to zero.
	p.Show(t0)
	p.Step(t0.Add(PanelFade))
	p.Hide(t0.Add(PanelFade))
	p.Step(t0.Add(PanelFade + PanelFade/2))
	p.Show(t0.Add(PanelFade + PanelFade/2))
	if !near(p.Alpha(), 0.5) || !p.Showing() {
		t.Fatalf("show during fade-out should continue from 0.5, got %v", p.Alpha())
	}
}

func TestPanelHideWhenHiddenIsNoop(t *testing.T) {
	var p Panel
	p.Hide(t0)
	if p.Visible() || p.Animating() || p.Alpha() != 0 {
		t.Fatal("hiding a hidden panel must not animate")
	}
	p.Show(t0)
	p.Step(t0.Add(PanelFade))
	p.Hide(t0.Add(PanelFade))
	p.Hide(t0.Add(PanelFade + PanelFade/2))
	p.Step(t0.Add(2 * PanelFade))
	if p.Visible() {
		t.Fatal("repeated hide should still finish hidden")
	}
}
