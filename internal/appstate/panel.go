package appstate

import (
	"math"
	"sync"
	"time"
)

// PanelFade is the duration of a full show or hide animation.
const PanelFade = 600 * time.Millisecond

// Panel is the palette overlay. It is either hidden or visible; while
// visible its alpha animates between 0 and 1. A transition started during
// another one continues from the current alpha, so the last request wins.
type Panel struct {
	mu        sync.Mutex
	visible   bool
	alpha     float64
	from      float64
	target    float64
	start     time.Time
	duration  time.Duration
	animating bool
}

// Visible reports whether the panel is on screen, including while fading.
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Alpha returns the opacity computed by the last Step.
func (p *Panel) Alpha() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alpha
}

// Animating reports whether a transition is in flight.
func (p *Panel) Animating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.animating
}

// Showing reports whether the panel is visible or on its way to visible.
func (p *Panel) Showing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible && p.target == 1
}

// Toggle shows a hidden or fading-out panel and hides a shown one.
func (p *Panel) Toggle(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visible && p.target == 1 {
		p.hide(now)
		return
	}
	p.show(now)
}

// Show fades the panel in.
func (p *Panel) Show(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.show(now)
}

// Hide fades the panel out. Hiding a hidden panel does nothing.
func (p *Panel) Hide(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hide(now)
}

func (p *Panel) show(now time.Time) {
	if p.visible && p.target == 1 {
		return
	}
	if !p.visible {
		p.alpha = 0
		p.visible = true
	}
	p.animate(now, 1)
}

func (p *Panel) hide(now time.Time) {
	if !p.visible || p.target == 0 {
		return
	}
	p.animate(now, 0)
}

// animate must be called with p.mu held.
func (p *Panel) animate(now time.Time, target float64) {
	p.step(now)
	p.from = p.alpha
	p.target = target
	p.start = now
	p.duration = time.Duration(math.Abs(target-p.alpha) * float64(PanelFade))
	p.animating = true
	if p.duration <= 0 {
		p.finish()
	}
}

// Step advances the animation to now and reports whether it is still running.
func (p *Panel) Step(now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step(now)
	return p.animating
}

func (p *Panel) step(now time.Time) {
	if !p.animating {
		return
	}
	elapsed := now.Sub(p.start)
	if elapsed >= p.duration {
		p.finish()
		return
	}
	t := float64(elapsed) / float64(p.duration)
	if t < 0 {
		t = 0
	}
	p.alpha = p.from + (p.target-p.from)*easeInOut(t)
}

func (p *Panel) finish() {
	p.alpha = p.target
	p.animating = false
	if p.target == 0 {
		p.visible = false
	}
}

func easeInOut(t float64) float64 {
	return t * t * (3 - 2*t)
}
