package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/render"
	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

const topBarHeight = 24

var (
	topBarFill  = color.RGBA{0x26, 0x2A, 0x2D, 0xFF}
	messageFace font.Face
)

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 48, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

type frameState struct {
	width, height int
	background    *image.RGBA
	scale         float64
	pan           view.Point
	actions       []board.Action
	users         []board.User
	localID       string

	tool      board.Tool
	col       color.RGBA
	lineWidth int
	fade      board.Fade
	locked    bool

	message      string
	messageUntil time.Time
	menu         *radialMenu
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st frameState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	boardImg := render.Frame(render.State{
		Width:      st.width,
		Height:     st.height - topBarHeight,
		Background: st.background,
		Scale:      st.scale,
		Pan:        st.pan,
		Actions:    st.actions,
	})
	if ctx.Err() != nil {
		return
	}
	draw.Draw(b.RGBA(), image.Rect(0, topBarHeight, st.width, st.height), boardImg, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	drawTopBar(b.RGBA(), st)
	drawRoster(b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}

	if st.menu != nil {
		st.menu.draw(b.RGBA())
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: b.RGBA(), Src: image.Black, Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (st.width - wmsg) / 2
		py := (st.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(b.RGBA(), rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
		drawBorder(b.RGBA(), rect, color.Black)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawTopBar(dst *image.RGBA, st frameState) {
	draw.Draw(dst, image.Rect(0, 0, st.width, topBarHeight), &image.Uniform{topBarFill}, image.Point{}, draw.Src)

	// current color swatch next to the title
	sw := image.Rect(62, 5, 76, 19)
	draw.Draw(dst, sw, &image.Uniform{st.col}, image.Point{}, draw.Src)
	drawBorder(dst, sw, color.Black)

	status := fmt.Sprintf("%s w%d fade:%s zoom:%d%%", st.tool, st.lineWidth, st.fade, int(st.scale*100+0.5))
	if st.locked {
		status += " [locked]"
	}
	d := &font.Drawer{Dst: dst, Src: image.White, Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	d.DrawString("TacMap")
	d.Dot = fixed.P(82, 16)
	d.DrawString(status)
}

// drawRoster lists every user in the top-right corner, newest last, each in
// their claimed color.
func drawRoster(dst *image.RGBA, st frameState) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	x := st.width - 6
	for i := len(st.users) - 1; i >= 0; i-- {
		u := st.users[i]
		label := u.Name
		if u.ID == st.localID {
			label = "*" + label
		}
		lw := d.MeasureString(label).Ceil()
		x -= lw
		dd := &font.Drawer{Dst: dst, Src: &image.Uniform{u.Color}, Face: basicfont.Face7x13,
			Dot: fixed.P(x, 16)}
		dd.DrawString(label)
		x -= 14
	}
}
