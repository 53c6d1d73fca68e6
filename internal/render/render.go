// Package render rasterizes the board. A frame is a pure function of the
// state passed in: same actions, background and viewport always produce the
// same pixels.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

// State is everything a frame depends on. The canvas origin is (0,0); the
// caller places the finished frame inside its window.
type State struct {
	Width      int
	Height     int
	Background *image.RGBA
	Scale      float64
	Pan        view.Point
	Actions    []board.Action
}

// canvasFill is the backdrop behind and around the map.
var canvasFill = color.RGBA{R: 0x1E, G: 0x20, B: 0x22, A: 0xFF}

var stampSizes = []float64{12, 16, 24, 32, 48, 64}

var stampFaces []font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	for _, sz := range stampSizes {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sz, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Fatalf("font face: %v", err)
		}
		stampFaces = append(stampFaces, face)
	}
}

// Frame renders the state into a fresh image.
func Frame(st State) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, st.Width, st.Height))
	draw.Draw(out, out.Bounds(), &image.Uniform{canvasFill}, image.Point{}, draw.Src)
	if st.Scale <= 0 {
		st.Scale = 1
	}

	if st.Background != nil {
		drawBackground(out, st)
	}
	for _, a := range st.Actions {
		drawAction(out, st, a)
	}
	return out
}

func drawBackground(out *image.RGBA, st State) {
	bg := st.Background
	bw := float64(bg.Bounds().Dx())
	bh := float64(bg.Bounds().Dy())
	dst := image.Rect(
		int(math.Round((0-st.Pan.X)*st.Scale)),
		int(math.Round((0-st.Pan.Y)*st.Scale)),
		int(math.Round((bw-st.Pan.X)*st.Scale)),
		int(math.Round((bh-st.Pan.Y)*st.Scale)),
	)
	xdraw.NearestNeighbor.Scale(out, dst, bg, bg.Bounds(), draw.Over, nil)
}

func toScreen(st State, p view.Point) image.Point {
	return image.Pt(
		int(math.Round((p.X-st.Pan.X)*st.Scale)),
		int(math.Round((p.Y-st.Pan.Y)*st.Scale)),
	)
}

func drawAction(out *image.RGBA, st State, a board.Action) {
	s := toScreen(st, a.Start)
	e := toScreen(st, a.End)
	w := int(math.Round(float64(a.Width) * st.Scale))
	if w < 1 {
		w = 1
	}
	switch a.Tool {
	case board.ToolPen:
		drawLine(out, s.X, s.Y, e.X, e.Y, a.Color, w)
	case board.ToolArrow:
		drawArrow(out, s.X, s.Y, e.X, e.Y, a.Color, w)
	case board.ToolCircle:
		r := int(math.Round(math.Hypot(a.End.X-a.Start.X, a.End.Y-a.Start.Y) * st.Scale))
		drawCircle(out, s.X, s.Y, r, a.Color, w)
	case board.ToolEmoji:
		drawStamp(out, e.X, e.Y, a.Emoji, a.Color, a.Width, st.Scale)
	}
}

// drawArrow draws a shaft pulled back from the tip by 1.5 widths and a
// filled triangular head whose barbs sit 3 widths back at 30 degrees off
// the axis. A gesture shorter than the pullback gets the head only.
func drawArrow(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	dist := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)
	pullback := 1.5 * float64(thick)
	head := 3 * float64(thick)

	if dist >= pullback && dist > 0 {
		sx := x1 - int(math.Round(math.Cos(angle)*pullback))
		sy := y1 - int(math.Round(math.Sin(angle)*pullback))
		drawLine(img, x0, y0, sx, sy, col, thick)
	}

	a1 := angle - math.Pi/6
	a2 := angle + math.Pi/6
	b1 := image.Pt(x1-int(math.Round(math.Cos(a1)*head)), y1-int(math.Round(math.Sin(a1)*head)))
	b2 := image.Pt(x1-int(math.Round(math.Cos(a2)*head)), y1-int(math.Round(math.Sin(a2)*head)))
	fillTriangle(img, image.Pt(x1, y1), b1, b2, col)
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawCircleThin(img *image.RGBA, cx, cy, r int, col color.Color) {
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		pts := [][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			px := cx + p[0]
			py := cy + p[1]
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

func drawCircle(img *image.RGBA, cx, cy, r int, col color.Color, thick int) {
	if thick <= 0 {
		drawCircleThin(img, cx, cy, r, col)
		return
	}
	start := -thick / 2
	for i := 0; i < thick; i++ {
		rr := r + start + i
		if rr >= 0 {
			drawCircleThin(img, cx, cy, rr, col)
		}
	}
}

// fillTriangle rasterizes the triangle a,b,c with a half-plane test over
// its bounding box.
func fillTriangle(img *image.RGBA, a, b, c image.Point, col color.Color) {
	minX := min3(a.X, b.X, c.X)
	maxX := max3(a.X, b.X, c.X)
	minY := min3(a.Y, b.Y, c.Y)
	maxY := max3(a.Y, b.Y, c.Y)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !image.Pt(x, y).In(img.Bounds()) {
				continue
			}
			d1 := edge(a, b, x, y)
			d2 := edge(b, c, x, y)
			d3 := edge(c, a, x, y)
			hasNeg := d1 < 0 || d2 < 0 || d3 < 0
			hasPos := d1 > 0 || d2 > 0 || d3 > 0
			if !(hasNeg && hasPos) {
				img.Set(x, y, col)
			}
		}
	}
}

func edge(p, q image.Point, x, y int) int {
	return (q.X-p.X)*(y-p.Y) - (q.Y-p.Y)*(x-p.X)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

// stampFace picks the pre-built face closest to the size the stroke width
// implies at the current zoom.
func stampFace(width int, scale float64) font.Face {
	target := (14 + 2*float64(width)) * scale
	best := 0
	for i, sz := range stampSizes {
		if math.Abs(sz-target) < math.Abs(stampSizes[best]-target) {
			best = i
		}
	}
	return stampFaces[best]
}

// drawStamp centers the glyph on the stamp point.
func drawStamp(img *image.RGBA, x, y int, glyph string, col color.Color, width int, scale float64) {
	if glyph == "" {
		return
	}
	face := stampFace(width, scale)
	d := &font.Drawer{Dst: img, Src: &image.Uniform{col}, Face: face}
	adv := d.MeasureString(glyph)
	metrics := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.I(x) - adv/2,
		Y: fixed.I(y) + (metrics.Ascent-metrics.Descent)/2,
	}
	d.DrawString(glyph)
}
