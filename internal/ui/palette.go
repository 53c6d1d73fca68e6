package ui

import (
	"image/color"
	"strings"
)

// PaletteColor pairs a display name with a stroke color.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

// palette holds the colors offered by the radial menu. Kept small enough
// that each squad member can claim a distinct one at a glance.
var palette = []PaletteColor{
	{"Red", color.RGBA{0xE5, 0x39, 0x35, 0xFF}},
	{"Orange", color.RGBA{0xFB, 0x8C, 0x00, 0xFF}},
	{"Yellow", color.RGBA{0xFD, 0xD8, 0x35, 0xFF}},
	{"Lime", color.RGBA{0x7C, 0xB3, 0x42, 0xFF}},
	{"Green", color.RGBA{0x2E, 0x7D, 0x32, 0xFF}},
	{"Teal", color.RGBA{0x00, 0x89, 0x7B, 0xFF}},
	{"Cyan", color.RGBA{0x00, 0xAC, 0xC1, 0xFF}},
	{"Blue", color.RGBA{0x1E, 0x88, 0xE5, 0xFF}},
	{"Navy", color.RGBA{0x39, 0x49, 0xAB, 0xFF}},
	{"Purple", color.RGBA{0x8E, 0x24, 0xAA, 0xFF}},
	{"Magenta", color.RGBA{0xD8, 0x1B, 0x60, 0xFF}},
	{"White", color.RGBA{0xFA, 0xFA, 0xFA, 0xFF}},
}

// PaletteColors lists the menu colors, used by the colors subcommand.
func PaletteColors() []PaletteColor {
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// PaletteColorByName resolves a color name, used when the CLI maps the
// -color flag onto the palette.
func PaletteColorByName(name string) (color.RGBA, bool) {
	for _, pc := range palette {
		if strings.EqualFold(pc.Name, name) {
			return pc.Color, true
		}
	}
	return color.RGBA{}, false
}
