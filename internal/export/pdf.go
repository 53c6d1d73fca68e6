// Package export writes a debrief sheet of the board to disk.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
)

const pageMargin = 10.0 // mm

// WritePDF renders the map and its annotations onto one A4 landscape page.
// Coordinates are mapped so the whole map (or, without a map, the extent of
// the annotations) fits inside the margins.
func WritePDF(path string, bg *image.RGBA, actions []board.Action) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)
	pageW, pageH := pdf.GetPageSize()
	availW := pageW - 2*pageMargin
	availH := pageH - 2*pageMargin

	worldW, worldH := contentExtent(bg, actions)
	scale := availW / worldW
	if s := availH / worldH; s < scale {
		scale = s
	}

	if bg != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, bg); err != nil {
			return fmt.Errorf("encode map: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("map", opts, &buf)
		pdf.ImageOptions("map", pageMargin, pageMargin,
			float64(bg.Bounds().Dx())*scale, float64(bg.Bounds().Dy())*scale,
			false, opts, 0, "")
	}

	toPage := func(x, y float64) (float64, float64) {
		return pageMargin + x*scale, pageMargin + y*scale
	}

	for _, a := range actions {
		pdf.SetDrawColor(int(a.Color.R), int(a.Color.G), int(a.Color.B))
		pdf.SetFillColor(int(a.Color.R), int(a.Color.G), int(a.Color.B))
		pdf.SetTextColor(int(a.Color.R), int(a.Color.G), int(a.Color.B))
		width := float64(a.Width) * scale
		if width < 0.2 {
			width = 0.2
		}
		pdf.SetLineWidth(width)

		x0, y0 := toPage(a.Start.X, a.Start.Y)
		x1, y1 := toPage(a.End.X, a.End.Y)
		switch a.Tool {
		case board.ToolPen:
			pdf.Line(x0, y0, x1, y1)
		case board.ToolArrow:
			drawArrow(pdf, x0, y0, x1, y1, width)
		case board.ToolCircle:
			pdf.Circle(x0, y0, math.Hypot(x1-x0, y1-y0), "D")
		case board.ToolEmoji:
			pdf.Text(x1, y1, a.Emoji)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// contentExtent picks the world rectangle the page has to cover, never
// smaller than 1x1 so the scale stays finite.
func contentExtent(bg *image.RGBA, actions []board.Action) (w, h float64) {
	if bg != nil {
		return math.Max(1, float64(bg.Bounds().Dx())), math.Max(1, float64(bg.Bounds().Dy()))
	}
	for _, a := range actions {
		w = math.Max(w, math.Max(a.Start.X, a.End.X))
		h = math.Max(h, math.Max(a.Start.Y, a.End.Y))
	}
	return math.Max(1, w), math.Max(1, h)
}

// drawArrow mirrors the on-screen arrow: pulled-back shaft plus a filled
// triangular head at 30 degrees off axis.
func drawArrow(pdf *gofpdf.Fpdf, x0, y0, x1, y1, width float64) {
	dx := x1 - x0
	dy := y1 - y0
	dist := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)
	pullback := 1.5 * width
	head := 3 * width

	if dist >= pullback && dist > 0 {
		pdf.Line(x0, y0, x1-math.Cos(angle)*pullback, y1-math.Sin(angle)*pullback)
	}
	pts := []gofpdf.PointType{
		{X: x1, Y: y1},
		{X: x1 - math.Cos(angle-math.Pi/6)*head, Y: y1 - math.Sin(angle-math.Pi/6)*head},
		{X: x1 - math.Cos(angle+math.Pi/6)*head, Y: y1 - math.Sin(angle+math.Pi/6)*head},
	}
	pdf.Polygon(pts, "F")
}
