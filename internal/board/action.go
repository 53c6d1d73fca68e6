package board

import (
	"fmt"
	"image/color"
	"time"

	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

// Tool selects what a gesture draws.
type Tool int

const (
	ToolPen Tool = iota
	ToolArrow
	ToolCircle
	ToolEmoji
)

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolArrow:
		return "arrow"
	case ToolCircle:
		return "circle"
	case ToolEmoji:
		return "emoji"
	default:
		return fmt.Sprintf("tool(%d)", int(t))
	}
}

// ParseTool converts a config or flag value into a Tool.
func ParseTool(s string) (Tool, error) {
	switch s {
	case "pen":
		return ToolPen, nil
	case "arrow":
		return ToolArrow, nil
	case "circle":
		return ToolCircle, nil
	case "emoji":
		return ToolEmoji, nil
	default:
		return ToolPen, fmt.Errorf("unknown tool %q", s)
	}
}

// Fade is the lifetime applied to new actions.
type Fade int

const (
	Fade10s Fade = iota
	Fade30s
	Fade1m
	Fade5m
	Fade10m
	FadePermanent
)

var fadeDurations = [...]time.Duration{
	Fade10s: 10 * time.Second,
	Fade30s: 30 * time.Second,
	Fade1m:  time.Minute,
	Fade5m:  5 * time.Minute,
	Fade10m: 10 * time.Minute,
}

// Duration reports the lifetime for the setting. Permanent reports ok=false.
func (f Fade) Duration() (d time.Duration, ok bool) {
	if f < Fade10s || f >= FadePermanent {
		return 0, false
	}
	return fadeDurations[f], true
}

func (f Fade) String() string {
	switch f {
	case Fade10s:
		return "10s"
	case Fade30s:
		return "30s"
	case Fade1m:
		return "1m"
	case Fade5m:
		return "5m"
	case Fade10m:
		return "10m"
	case FadePermanent:
		return "permanent"
	default:
		return fmt.Sprintf("fade(%d)", int(f))
	}
}

// ParseFade converts a config or flag value into a Fade.
func ParseFade(s string) (Fade, error) {
	for f := Fade10s; f <= FadePermanent; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return FadePermanent, fmt.Errorf("unknown fade %q", s)
}

// Next cycles toward longer lifetimes, wrapping past permanent.
func (f Fade) Next() Fade {
	if f >= FadePermanent {
		return Fade10s
	}
	return f + 1
}

// Prev cycles toward shorter lifetimes, wrapping past 10s.
func (f Fade) Prev() Fade {
	if f <= Fade10s {
		return FadePermanent
	}
	return f - 1
}

// Action is one committed annotation. Actions never change after creation;
// the session only appends, sweeps and undoes them.
type Action struct {
	ID         string
	AuthorID   string
	AuthorName string
	Color      color.RGBA
	Tool       Tool
	Width      int
	Start      view.Point
	End        view.Point
	Emoji      string
	// ExpireAt zero means the action never expires.
	ExpireAt time.Time
}

// Expired reports whether the action should be swept at the given instant.
// Only a strictly future ExpireAt keeps the action alive.
func (a Action) Expired(now time.Time) bool {
	return !a.ExpireAt.IsZero() && !now.Before(a.ExpireAt)
}

// User is one identity on the board roster.
type User struct {
	ID    string
	Name  string
	Color color.RGBA
}
