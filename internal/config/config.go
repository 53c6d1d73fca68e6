package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Notify holds notification toggles.
type Notify struct {
	Save   bool
	Export bool
	Upload bool
}

// Config holds the application configuration. Tool and Fade stay as strings
// here; the CLI validates them against the board's parsers so a bad value is
// reported at startup, not at first use.
type Config struct {
	PlayerName  string
	PlayerColor color.RGBA
	MapDir      string
	Tool        string
	LineWidth   int
	Fade        string
	Emoji       string
	Notify      Notify
}

// New creates a new Config with defaults. Zero values mean "not set" so the
// CLI's precedence chain can fall through to env and built-in defaults.
func New() *Config {
	return &Config{}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.PlayerName != "" {
		fmt.Fprintf(&sb, "player_name = %s\n", c.PlayerName)
	}
	if c.PlayerColor != (color.RGBA{}) {
		fmt.Fprintf(&sb, "player_color = %s\n", toHex(c.PlayerColor))
	}
	if c.MapDir != "" {
		fmt.Fprintf(&sb, "map_dir = %s\n", c.MapDir)
	}
	if c.Tool != "" {
		fmt.Fprintf(&sb, "tool = %s\n", c.Tool)
	}
	if c.LineWidth != 0 {
		fmt.Fprintf(&sb, "line_width = %d\n", c.LineWidth)
	}
	if c.Fade != "" {
		fmt.Fprintf(&sb, "fade = %s\n", c.Fade)
	}
	if c.Emoji != "" {
		fmt.Fprintf(&sb, "emoji = %s\n", c.Emoji)
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "upload = %v\n", c.Notify.Upload)
	sb.WriteString("\n")

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
