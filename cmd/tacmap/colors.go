package main

import (
	"fmt"

	"github.com/mp2468/tarkov-tactical-map/internal/ui"
)

// colorsCmd lists the palette names accepted by the -color flag.
type colorsCmd struct{ r *root }

func (c *colorsCmd) Run() error {
	for _, pc := range ui.PaletteColors() {
		fmt.Printf("%-8s #%02X%02X%02X\n", pc.Name, pc.Color.R, pc.Color.G, pc.Color.B)
	}
	return nil
}
