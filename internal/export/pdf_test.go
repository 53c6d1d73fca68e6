package export

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

func sampleActions() []board.Action {
	col := color.RGBA{R: 0xFF, A: 0xFF}
	return []board.Action{
		{Tool: board.ToolPen, Color: col, Width: 3, Start: view.Pt(10, 10), End: view.Pt(200, 150)},
		{Tool: board.ToolArrow, Color: col, Width: 4, Start: view.Pt(50, 300), End: view.Pt(400, 310)},
		{Tool: board.ToolCircle, Color: col, Width: 2, Start: view.Pt(300, 200), End: view.Pt(340, 200)},
		{Tool: board.ToolEmoji, Color: col, Width: 5, Emoji: "!", Start: view.Pt(100, 100), End: view.Pt(100, 100)},
	}
}

func TestWritePDFWithMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debrief.pdf")
	bg := image.NewRGBA(image.Rect(0, 0, 640, 480))
	if err := WritePDF(path, bg, sampleActions()); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
}

func TestWritePDFWithoutMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debrief.pdf")
	if err := WritePDF(path, nil, sampleActions()); err != nil {
		t.Fatalf("WritePDF without a map: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("empty or missing output: %v", err)
	}
}

func TestWritePDFDegenerateArrow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debrief.pdf")
	actions := []board.Action{
		{Tool: board.ToolArrow, Color: color.RGBA{A: 0xFF}, Width: 4, Start: view.Pt(5, 5), End: view.Pt(5, 5)},
	}
	if err := WritePDF(path, nil, actions); err != nil {
		t.Fatalf("degenerate arrow should still export: %v", err)
	}
}

func TestWritePDFBadPath(t *testing.T) {
	err := WritePDF(filepath.Join(t.TempDir(), "missing", "dir", "out.pdf"), nil, nil)
	if err == nil {
		t.Fatalf("unwritable path should error")
	}
}
