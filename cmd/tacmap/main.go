package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/config"
	"github.com/mp2468/tarkov-tactical-map/internal/notify"
	"github.com/mp2468/tarkov-tactical-map/internal/ui"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	notifier *notify.Notifier
	config   *config.Config

	playerName   string
	colorName    string
	toolName     string
	lineWidth    int
	fadeName     string
	emoji        string
	saveAlerts   bool
	exportAlerts bool
	uploadAlerts bool
}

func (r *root) Program() string { return r.program }

func (r *root) Synopsis() string { return "[flags] <board|export|config|colors|version> ..." }

func (r *root) FlagSet() *flag.FlagSet { return r.fs }

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("tacmap", flag.ExitOnError),
		program:  "tacmap",
		notifier: notify.New(prefs),
		config:   cfg,
	}

	// Precedence: CLI > Env > Config > Default. Flags default to "unset" and
	// the resolve helpers fall through the chain.
	r.fs.StringVar(&r.playerName, "name", "", "player name shown on the roster")
	r.fs.StringVar(&r.colorName, "color", "", "stroke color, a palette name or #RRGGBB")
	r.fs.StringVar(&r.toolName, "tool", "", "starting tool (pen, arrow, circle, emoji)")
	r.fs.IntVar(&r.lineWidth, "width", 0, "stroke width, 1 to 20")
	r.fs.StringVar(&r.fadeName, "fade", "", "annotation lifetime (10s, 30s, 1m, 5m, 10m, permanent)")
	r.fs.StringVar(&r.emoji, "emoji", "", "glyph used by the emoji stamp tool")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a board snapshot")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting a debrief PDF")
	r.fs.BoolVar(&r.uploadAlerts, "notify-upload", cfg.Notify.Upload, "show a desktop notification when a map upload is rejected")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventUpload, r.uploadAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "board":
		cmd, err = parseBoardCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "colors":
		cmd = &colorsCmd{r: r}
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveName follows the precedence chain for the roster name.
func (r *root) resolveName() string {
	if r.playerName != "" {
		return r.playerName
	}
	if v := os.Getenv("TACMAP_NAME"); v != "" {
		return v
	}
	return r.config.PlayerName
}

// resolveColor accepts either a palette name or a hex string.
func (r *root) resolveColor() (color.RGBA, bool, error) {
	name := r.colorName
	if name == "" {
		name = os.Getenv("TACMAP_COLOR")
	}
	if name == "" {
		if r.config.PlayerColor != (color.RGBA{}) {
			return r.config.PlayerColor, true, nil
		}
		return color.RGBA{}, false, nil
	}
	if c, ok := ui.PaletteColorByName(name); ok {
		return c, true, nil
	}
	c, err := config.ParseColor(name)
	if err != nil {
		return color.RGBA{}, false, fmt.Errorf("unknown color %q: %w", name, err)
	}
	return c, true, nil
}

func (r *root) resolveTool() (board.Tool, bool, error) {
	name := r.toolName
	if name == "" {
		name = r.config.Tool
	}
	if name == "" {
		return 0, false, nil
	}
	t, err := board.ParseTool(name)
	if err != nil {
		return 0, false, err
	}
	return t, true, nil
}

func (r *root) resolveFade() (board.Fade, bool, error) {
	name := r.fadeName
	if name == "" {
		name = os.Getenv("TACMAP_FADE")
	}
	if name == "" {
		name = r.config.Fade
	}
	if name == "" {
		return 0, false, nil
	}
	f, err := board.ParseFade(name)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

func (r *root) resolveWidth() (int, bool) {
	if r.lineWidth != 0 {
		return r.lineWidth, true
	}
	if r.config.LineWidth != 0 {
		return r.config.LineWidth, true
	}
	return 0, false
}

func (r *root) resolveEmoji() string {
	if r.emoji != "" {
		return r.emoji
	}
	return r.config.Emoji
}

// sessionOptions turns the resolved settings into session construction
// options, validating flag values before the window opens.
func (r *root) sessionOptions() ([]board.Option, error) {
	var opts []board.Option
	if name := r.resolveName(); name != "" {
		opts = append(opts, board.WithName(name))
	}
	c, ok, err := r.resolveColor()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, board.WithColor(c))
	}
	t, ok, err := r.resolveTool()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, board.WithTool(t))
	}
	f, ok, err := r.resolveFade()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, board.WithFade(f))
	}
	if w, ok := r.resolveWidth(); ok {
		if w < board.MinLineWidth || w > board.MaxLineWidth {
			return nil, fmt.Errorf("width %d out of range %d to %d", w, board.MinLineWidth, board.MaxLineWidth)
		}
		opts = append(opts, board.WithLineWidth(w))
	}
	return opts, nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func buildInfo() string {
	parts := []string{version}
	if commit != "" {
		parts = append(parts, commit)
	}
	if date != "" {
		parts = append(parts, date)
	}
	return strings.Join(parts, " ")
}
