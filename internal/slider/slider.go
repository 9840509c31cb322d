// Package slider models the before/after comparison widget: a draggable
// vertical divide over a pane that reveals the "before" image on its left.
package slider

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// MinPosition and MaxPosition keep the divider and handle inside the pane.
	MinPosition = 2.0
	MaxPosition = 98.0
	// InitialPosition is where a fresh widget starts.
	InitialPosition = 50.0
)

// Rect is the horizontal extent of the comparison pane in client coordinates.
type Rect struct {
	Left  float64
	Width float64
}

// Percent maps a client x coordinate to a position inside the pane,
// clamped to [MinPosition, MaxPosition]. ok is false when the pane has no
// usable width.
func Percent(x float64, pane Rect) (pos float64, ok bool) {
	if !(pane.Width > 0) || math.IsInf(pane.Width, 0) {
		return 0, false
	}
	p := (x - pane.Left) / pane.Width * 100
	if math.IsNaN(p) {
		return 0, false
	}
	return Clamp(p), true
}

// Clamp bounds p to [MinPosition, MaxPosition].
func Clamp(p float64) float64 {
	return math.Max(MinPosition, math.Min(MaxPosition, p))
}

// Phase is the drag state of a widget.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the transient state owned by one widget.
type State struct {
	Position float64
	Phase    Phase
}

// Dragging reports whether a pointer is held down.
func (s State) Dragging() bool {
	return s.Phase == Dragging
}

// Widget is one comparison slider. The zero value is not ready; use New.
type Widget struct {
	state State
}

func New() *Widget {
	return &Widget{state: State{Position: InitialPosition, Phase: Idle}}
}

// State returns a copy of the current state.
func (w *Widget) State() State {
	return w.state
}

// PointerDown starts a drag and jumps the divider to x.
func (w *Widget) PointerDown(x float64, pane Rect) Layout {
	w.state.Phase = Dragging
	w.moveTo(x, pane)
	return w.Layout()
}

// PointerMove follows the pointer while dragging and is ignored otherwise.
// The pointer may be outside the pane; the position is clamped.
func (w *Widget) PointerMove(x float64, pane Rect) Layout {
	if w.state.Phase == Dragging {
		w.moveTo(x, pane)
	}
	return w.Layout()
}

// PointerUp ends a drag without moving the divider.
func (w *Widget) PointerUp() Layout {
	w.state.Phase = Idle
	return w.Layout()
}

// Reset returns the widget to its initial state.
func (w *Widget) Reset() {
	w.state = State{Position: InitialPosition, Phase: Idle}
}

func (w *Widget) moveTo(x float64, pane Rect) {
	if p, ok := Percent(x, pane); ok {
		w.state.Position = p
	}
}

// Layout is what the page applies to its elements for the current position.
type Layout struct {
	// ClipRight is the share of the before layer hidden from the right edge.
	ClipRight float64
	// DividerLeft and HandleLeft are offsets from the pane's left edge.
	DividerLeft float64
	HandleLeft  float64
}

// Layout derives element placement from the current position.
func (w *Widget) Layout() Layout {
	return LayoutAt(w.state.Position)
}

// LayoutAt derives element placement for a position.
func LayoutAt(pos float64) Layout {
	return Layout{
		ClipRight:   100 - pos,
		DividerLeft: pos,
		HandleLeft:  pos,
	}
}

// ClipPath is the CSS clip-path for the before layer.
func (l Layout) ClipPath() string {
	return "inset(0 " + pct(l.ClipRight) + " 0 0)"
}

// Left is the CSS left offset for the divider and the handle.
func (l Layout) Left() string {
	return pct(l.DividerLeft)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
