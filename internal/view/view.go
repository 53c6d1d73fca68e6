// Package view maps between screen and world coordinates and owns the
// zoom/pan state of the map canvas. World space is the pixel grid of the
// loaded map image; screen space is window pixels.
package view

// Point is a position in either screen or world coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Extent is a width/height pair in pixels.
type Extent struct {
	W, H float64
}

// Zoom scale limits. Scale 1 shows the map at native resolution.
const (
	MinScale = 1.0
	MaxScale = 4.0
)

// ScreenToWorld converts a screen position to world coordinates given the
// canvas origin on screen, the current scale and the current pan.
func ScreenToWorld(screen, origin Point, scale float64, pan Point) Point {
	return Point{
		X: (screen.X-origin.X)/scale + pan.X,
		Y: (screen.Y-origin.Y)/scale + pan.Y,
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(world, origin Point, scale float64, pan Point) Point {
	return Point{
		X: (world.X-pan.X)*scale + origin.X,
		Y: (world.Y-pan.Y)*scale + origin.Y,
	}
}

// ClampPan limits pan so the visible window stays inside the background.
// A nil background leaves pan untouched. On an axis where the whole
// background fits in the viewport the pan is pinned to 0.
func ClampPan(pan Point, scale float64, bg *Extent, viewport Extent) Point {
	if bg == nil {
		return pan
	}
	maxX := bg.W - viewport.W/scale
	if maxX < 0 {
		maxX = 0
	}
	maxY := bg.H - viewport.H/scale
	if maxY < 0 {
		maxY = 0
	}
	return Point{
		X: clampFloat(pan.X, 0, maxX),
		Y: clampFloat(pan.Y, 0, maxY),
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Viewport tracks where the canvas sits on screen and how the world is
// currently framed. Scale stays within [MinScale, MaxScale]; pan is kept
// clamped against the background after every mutation.
type Viewport struct {
	origin Point
	extent Extent
	bg     *Extent
	scale  float64
	pan    Point
}

// New returns a viewport at scale 1 with no pan.
func New() *Viewport {
	return &Viewport{scale: MinScale}
}

// Scale reports the current zoom scale.
func (v *Viewport) Scale() float64 { return v.scale }

// Pan reports the current pan in world coordinates.
func (v *Viewport) Pan() Point { return v.pan }

// SetBounds records the canvas rectangle within the window. Called on every
// window resize so conversions always use the live geometry.
func (v *Viewport) SetBounds(origin Point, extent Extent) {
	v.origin = origin
	v.extent = extent
	v.pan = ClampPan(v.pan, v.scale, v.bg, v.extent)
}

// SetBackground sets the extent panning is constrained to. Passing nil
// removes the constraint.
func (v *Viewport) SetBackground(bg *Extent) {
	v.bg = bg
	v.pan = ClampPan(v.pan, v.scale, v.bg, v.extent)
}

func (v *Viewport) degenerate() bool {
	return v.extent.W <= 0 || v.extent.H <= 0
}

// ScreenToWorld converts a screen position using the current transform.
// Before the first size event the canvas has no geometry and the conversion
// degrades to identity.
func (v *Viewport) ScreenToWorld(screen Point) Point {
	if v.degenerate() {
		return screen
	}
	return ScreenToWorld(screen, v.origin, v.scale, v.pan)
}

// WorldToScreen converts a world position using the current transform, with
// the same identity fallback as ScreenToWorld.
func (v *Viewport) WorldToScreen(world Point) Point {
	if v.degenerate() {
		return world
	}
	return WorldToScreen(world, v.origin, v.scale, v.pan)
}

// ZoomAt multiplies the scale by factor while keeping the world point under
// the given screen anchor stationary. Scale and pan commit together so no
// reader observes a half-applied zoom.
func (v *Viewport) ZoomAt(anchor Point, factor float64) {
	scale := clampFloat(v.scale*factor, MinScale, MaxScale)
	if v.degenerate() {
		v.scale = scale
		return
	}
	world := ScreenToWorld(anchor, v.origin, v.scale, v.pan)
	pan := Point{
		X: world.X - (anchor.X-v.origin.X)/scale,
		Y: world.Y - (anchor.Y-v.origin.Y)/scale,
	}
	v.scale = scale
	v.pan = ClampPan(pan, scale, v.bg, v.extent)
}

// ZoomAroundCenter zooms toward the given absolute scale, anchored at the
// center of the canvas.
func (v *Viewport) ZoomAroundCenter(target float64) {
	if v.scale == 0 {
		return
	}
	center := Point{
		X: v.origin.X + v.extent.W/2,
		Y: v.origin.Y + v.extent.H/2,
	}
	v.ZoomAt(center, target/v.scale)
}

// PanBy moves the view by a screen-space drag delta. Dragging the map right
// decreases pan, so the content follows the pointer.
func (v *Viewport) PanBy(delta Point) {
	pan := Point{
		X: v.pan.X - delta.X/v.scale,
		Y: v.pan.Y - delta.Y/v.scale,
	}
	v.pan = ClampPan(pan, v.scale, v.bg, v.extent)
}

// Reset returns to scale 1 with no pan, skipping the clamp so it always
// lands on the origin even mid-resize.
func (v *Viewport) Reset() {
	v.scale = MinScale
	v.pan = Point{}
}
