package ui

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
)

const (
	menuColorRadius = 58.0
	menuToolRadius  = 26.0
	menuSwatchSize  = 18
	menuToolSize    = 22
)

// menuEntry is one clickable item on the radial menu.
type menuEntry struct {
	rect  image.Rectangle
	col   color.RGBA
	label string
	apply func()
}

// radialMenu pops up on a secondary-button press: colors on the outer ring,
// tools on the inner one.
type radialMenu struct {
	at      image.Point
	entries []menuEntry
}

func newRadialMenu(at image.Point, session *board.Session) *radialMenu {
	m := &radialMenu{at: at}

	n := len(palette)
	for i, pc := range palette {
		angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		cx := at.X + int(math.Cos(angle)*menuColorRadius)
		cy := at.Y + int(math.Sin(angle)*menuColorRadius)
		hs := menuSwatchSize / 2
		col := pc.Color
		m.entries = append(m.entries, menuEntry{
			rect:  image.Rect(cx-hs, cy-hs, cx+hs, cy+hs),
			col:   col,
			apply: func() { session.SetColor(col) },
		})
	}

	tools := []struct {
		label string
		tool  board.Tool
	}{
		{"P", board.ToolPen},
		{"A", board.ToolArrow},
		{"O", board.ToolCircle},
		{"E", board.ToolEmoji},
	}
	for i, t := range tools {
		angle := 2*math.Pi*float64(i)/float64(len(tools)) - math.Pi/2
		cx := at.X + int(math.Cos(angle)*menuToolRadius)
		cy := at.Y + int(math.Sin(angle)*menuToolRadius)
		hs := menuToolSize / 2
		tool := t.tool
		m.entries = append(m.entries, menuEntry{
			rect:  image.Rect(cx-hs, cy-hs, cx+hs, cy+hs),
			label: t.label,
			apply: func() { session.SetTool(tool) },
		})
	}

	return m
}

// press applies the entry under p and reports whether one was hit. The
// caller closes the menu either way.
func (m *radialMenu) press(p image.Point) bool {
	for _, en := range m.entries {
		if p.In(en.rect) {
			en.apply()
			return true
		}
	}
	return false
}

func (m *radialMenu) draw(dst *image.RGBA) {
	for _, en := range m.entries {
		if en.label == "" {
			draw.Draw(dst, en.rect, &image.Uniform{en.col}, image.Point{}, draw.Src)
			drawBorder(dst, en.rect, color.Black)
			continue
		}
		draw.Draw(dst, en.rect, &image.Uniform{color.RGBA{0x37, 0x3B, 0x3E, 0xFF}}, image.Point{}, draw.Src)
		drawBorder(dst, en.rect, color.White)
		d := &font.Drawer{Dst: dst, Src: image.White, Face: basicfont.Face7x13,
			Dot: fixed.P(en.rect.Min.X+(menuToolSize-7)/2, en.rect.Min.Y+15)}
		d.DrawString(en.label)
	}
}

func drawBorder(dst *image.RGBA, r image.Rectangle, col color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, col)
		dst.Set(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, col)
		dst.Set(r.Max.X-1, y, col)
	}
}
