// Package gesture routes pointer events into panning, drawing or the radial
// menu. One pointer, one gesture at a time; what a press means is decided at
// press time and stays fixed until release.
package gesture

import (
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

type phase int

const (
	phaseIdle phase = iota
	phasePanning
	phaseDrawing
)

// wheelZoomStep is the scale factor per wheel notch.
const wheelZoomStep = 1.25

// Router turns mouse events into viewport and session mutations.
type Router struct {
	vp      *view.Viewport
	session *board.Session
	onMenu  func(at view.Point)

	phase     phase
	spaceHeld bool

	anchor  view.Point // last pan anchor, screen coordinates
	start   view.Point // gesture start, world coordinates
	last    view.Point // previous pen sample, world coordinates
	current view.Point // live gesture point, world coordinates
	moved   bool
}

// NewRouter wires a router to the viewport it pans/zooms and the session it
// records into. onMenu fires on a secondary-button press; it may be nil.
func NewRouter(vp *view.Viewport, session *board.Session, onMenu func(at view.Point)) *Router {
	return &Router{vp: vp, session: session, onMenu: onMenu}
}

// Active reports whether a gesture is in progress.
func (r *Router) Active() bool { return r.phase != phaseIdle }

// Drawing reports whether a drawing gesture is in progress.
func (r *Router) Drawing() bool { return r.phase == phaseDrawing }

// SetSpaceHeld tracks the spacebar pan modifier. Only consulted at press
// time; releasing space mid-gesture does not change the gesture.
func (r *Router) SetSpaceHeld(held bool) { r.spaceHeld = held }

// Preview returns the shape the in-progress drawing gesture would commit,
// so the frame can show it before release. Pen gestures commit segments as
// they go and have no preview.
func (r *Router) Preview() (board.Action, bool) {
	if r.phase != phaseDrawing || r.session.Tool() == board.ToolPen {
		return board.Action{}, false
	}
	a := board.Action{
		Color: r.session.Color(),
		Tool:  r.session.Tool(),
		Width: r.session.LineWidth(),
		Start: r.start,
		End:   r.current,
	}
	if a.Tool == board.ToolEmoji {
		a.Emoji = r.session.Emoji()
	}
	return a, true
}

// Handle consumes one mouse event and reports whether visible state changed.
func (r *Router) Handle(e mouse.Event) bool {
	at := view.Pt(float64(e.X), float64(e.Y))

	if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
		return r.handleWheel(e, at)
	}

	switch e.Direction {
	case mouse.DirPress:
		return r.handlePress(e, at)
	case mouse.DirNone:
		return r.handleMove(at)
	case mouse.DirRelease:
		return r.handleRelease(e, at)
	}
	return false
}

func (r *Router) handleWheel(e mouse.Event, at view.Point) bool {
	if e.Direction == mouse.DirRelease || r.phase != phaseIdle {
		return false
	}
	if e.Button == mouse.ButtonWheelUp {
		r.vp.ZoomAt(at, wheelZoomStep)
	} else {
		r.vp.ZoomAt(at, 1/wheelZoomStep)
	}
	return true
}

func (r *Router) handlePress(e mouse.Event, at view.Point) bool {
	if r.phase != phaseIdle {
		return false
	}
	switch e.Button {
	case mouse.ButtonRight:
		if r.onMenu != nil {
			r.onMenu(at)
			return true
		}
		return false
	case mouse.ButtonLeft:
		if e.Modifiers&key.ModControl != 0 || r.spaceHeld {
			r.phase = phasePanning
			r.anchor = at
			return false
		}
		r.phase = phaseDrawing
		r.start = r.vp.ScreenToWorld(at)
		r.last = r.start
		r.current = r.start
		r.moved = false
		return true
	}
	return false
}

func (r *Router) handleMove(at view.Point) bool {
	switch r.phase {
	case phasePanning:
		delta := at.Sub(r.anchor)
		r.anchor = at
		r.vp.PanBy(delta)
		return true
	case phaseDrawing:
		r.current = r.vp.ScreenToWorld(at)
		if r.session.Tool() == board.ToolPen {
			if r.current != r.last {
				r.session.Record(board.ToolPen, r.last, r.current)
				r.last = r.current
				r.moved = true
			}
		}
		return true
	}
	return false
}

func (r *Router) handleRelease(e mouse.Event, at view.Point) bool {
	if e.Button != mouse.ButtonLeft {
		return false
	}
	switch r.phase {
	case phasePanning:
		r.phase = phaseIdle
		return false
	case phaseDrawing:
		r.phase = phaseIdle
		r.current = r.vp.ScreenToWorld(at)
		switch tool := r.session.Tool(); tool {
		case board.ToolPen:
			// A click without movement still leaves a dot.
			if r.current != r.last || !r.moved {
				r.session.Record(board.ToolPen, r.last, r.current)
			}
		default:
			r.session.Record(tool, r.start, r.current)
		}
		return true
	}
	return false
}
