package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

var (
	red   = color.RGBA{R: 0xFF, A: 0xFF}
	green = color.RGBA{G: 0xFF, A: 0xFF}
)

func uniformBackground(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func TestFrameDeterministic(t *testing.T) {
	st := State{
		Width:      200,
		Height:     150,
		Background: uniformBackground(100, 100, green),
		Scale:      2,
		Pan:        view.Pt(10, 5),
		Actions: []board.Action{
			{Tool: board.ToolPen, Color: red, Width: 3, Start: view.Pt(20, 20), End: view.Pt(60, 40)},
			{Tool: board.ToolArrow, Color: red, Width: 2, Start: view.Pt(10, 80), End: view.Pt(70, 80)},
		},
	}
	a := Frame(st)
	b := Frame(st)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("same state produced different frames")
	}
}

func TestBackgroundPlacement(t *testing.T) {
	st := State{
		Width:      100,
		Height:     100,
		Background: uniformBackground(50, 50, green),
		Scale:      1,
		Pan:        view.Pt(0, 0),
	}
	out := Frame(st)
	if got := out.RGBAAt(10, 10); got != green {
		t.Fatalf("map pixel at (10,10) should be green, got %v", got)
	}
	if got := out.RGBAAt(80, 80); got != canvasFill {
		t.Fatalf("pixel outside the map should be canvas fill, got %v", got)
	}
}

func TestBackgroundFollowsPanAndScale(t *testing.T) {
	st := State{
		Width:      100,
		Height:     100,
		Background: uniformBackground(50, 50, green),
		Scale:      2,
		Pan:        view.Pt(10, 10),
	}
	out := Frame(st)
	// World (10,10) maps to screen (0,0); world (50,50) to screen (80,80).
	if got := out.RGBAAt(0, 0); got != green {
		t.Fatalf("map corner should be at the origin after pan, got %v", got)
	}
	if got := out.RGBAAt(79, 79); got != green {
		t.Fatalf("scaled map should reach (79,79), got %v", got)
	}
	if got := out.RGBAAt(85, 85); got != canvasFill {
		t.Fatalf("beyond the scaled map should be canvas fill, got %v", got)
	}
}

func TestPenSegmentDrawn(t *testing.T) {
	st := State{
		Width:  100,
		Height: 100,
		Scale:  1,
		Actions: []board.Action{
			{Tool: board.ToolPen, Color: red, Width: 1, Start: view.Pt(10, 50), End: view.Pt(90, 50)},
		},
	}
	out := Frame(st)
	for _, x := range []int{10, 50, 90} {
		if got := out.RGBAAt(x, 50); got != red {
			t.Fatalf("pen pixel missing at (%d,50): %v", x, got)
		}
	}
	if got := out.RGBAAt(50, 60); got != canvasFill {
		t.Fatalf("pixel off the stroke should be untouched, got %v", got)
	}
}

func TestCircleRadiusFromEndpoint(t *testing.T) {
	st := State{
		Width:  200,
		Height: 200,
		Scale:  1,
		Actions: []board.Action{
			{Tool: board.ToolCircle, Color: red, Width: 1, Start: view.Pt(100, 100), End: view.Pt(130, 100)},
		},
	}
	out := Frame(st)
	if got := out.RGBAAt(130, 100); got != red {
		t.Fatalf("circle should pass through (130,100), got %v", got)
	}
	if got := out.RGBAAt(100, 70); got != red {
		t.Fatalf("circle should pass through (100,70), got %v", got)
	}
	if got := out.RGBAAt(100, 100); got != canvasFill {
		t.Fatalf("circle center should stay empty, got %v", got)
	}
}

func TestArrowHeadFilled(t *testing.T) {
	st := State{
		Width:  200,
		Height: 200,
		Scale:  1,
		Actions: []board.Action{
			{Tool: board.ToolArrow, Color: red, Width: 4, Start: view.Pt(20, 100), End: view.Pt(150, 100)},
		},
	}
	out := Frame(st)
	if got := out.RGBAAt(150, 100); got != red {
		t.Fatalf("arrow tip missing, got %v", got)
	}
	// Inside the head, between tip and barbs.
	if got := out.RGBAAt(144, 100); got != red {
		t.Fatalf("arrow head should be filled, got %v", got)
	}
	if got := out.RGBAAt(60, 100); got != red {
		t.Fatalf("arrow shaft missing, got %v", got)
	}
}

func TestArrowDegenerateDrawsHeadOnly(t *testing.T) {
	st := State{
		Width:  100,
		Height: 100,
		Scale:  1,
		Actions: []board.Action{
			{Tool: board.ToolArrow, Color: red, Width: 5, Start: view.Pt(50, 50), End: view.Pt(50, 50)},
		},
	}
	out := Frame(st)
	if got := out.RGBAAt(50, 50); got != red {
		t.Fatalf("degenerate arrow should still mark its tip, got %v", got)
	}
}

func TestEmojiStampMarksPixels(t *testing.T) {
	st := State{
		Width:  100,
		Height: 100,
		Scale:  1,
		Actions: []board.Action{
			{Tool: board.ToolEmoji, Color: red, Width: 5, Emoji: "X", Start: view.Pt(50, 50), End: view.Pt(50, 50)},
		},
	}
	out := Frame(st)
	found := false
	for y := 30; y < 70 && !found; y++ {
		for x := 30; x < 70; x++ {
			if out.RGBAAt(x, y) == red {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("emoji stamp left no pixels near the stamp point")
	}
}

func TestActionsDrawInOrder(t *testing.T) {
	st := State{
		Width:  100,
		Height: 100,
		Scale:  1,
		Actions: []board.Action{
			{Tool: board.ToolPen, Color: red, Width: 5, Start: view.Pt(50, 50), End: view.Pt(50, 50)},
			{Tool: board.ToolPen, Color: green, Width: 5, Start: view.Pt(50, 50), End: view.Pt(50, 50)},
		},
	}
	out := Frame(st)
	if got := out.RGBAAt(50, 50); got != green {
		t.Fatalf("later action should draw on top, got %v", got)
	}
}

func TestStrokeWidthScalesWithZoom(t *testing.T) {
	mk := func(scale float64) *image.RGBA {
		return Frame(State{
			Width:  200,
			Height: 200,
			Scale:  scale,
			Actions: []board.Action{
				{Tool: board.ToolPen, Color: red, Width: 4, Start: view.Pt(10, 40), End: view.Pt(40, 40)},
			},
		})
	}
	thin := mk(1)
	thick := mk(2)
	count := func(img *image.RGBA) int {
		n := 0
		for y := 0; y < 200; y++ {
			for x := 0; x < 200; x++ {
				if img.RGBAAt(x, y) == red {
					n++
				}
			}
		}
		return n
	}
	if count(thick) <= count(thin) {
		t.Fatalf("zoomed stroke should cover more pixels: scale1=%d scale2=%d", count(thin), count(thick))
	}
}
