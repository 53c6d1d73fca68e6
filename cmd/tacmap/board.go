package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/broadcast"
	"github.com/mp2468/tarkov-tactical-map/internal/ui"
)

// boardCmd opens the interactive board window.
type boardCmd struct {
	*root
	fs         *flag.FlagSet
	mapPath    string
	output     string
	exportPath string
}

func parseBoardCmd(args []string, r *root) (*boardCmd, error) {
	fs := flag.NewFlagSet("board", flag.ExitOnError)
	b := &boardCmd{root: r, fs: fs}
	fs.StringVar(&b.mapPath, "map", "", "map image loaded as the board background")
	fs.StringVar(&b.output, "output", "tacmap.png", "path for board snapshots (ctrl+s)")
	fs.StringVar(&b.exportPath, "export", "tacmap.pdf", "path for the debrief PDF (ctrl+e)")
	fs.Usage = usageFunc(b)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	// A bare positional argument also names the map file.
	if b.mapPath == "" && fs.NArg() > 0 {
		b.mapPath = fs.Arg(0)
	}
	return b, nil
}

func (b *boardCmd) Program() string { return b.root.program + " board" }

func (b *boardCmd) Synopsis() string { return "[flags] [map image]" }

func (b *boardCmd) FlagSet() *flag.FlagSet { return b.fs }

func (b *boardCmd) Run() error {
	opts, err := b.root.sessionOptions()
	if err != nil {
		return err
	}
	opts = append(opts, board.WithPublisher(broadcast.NewLogPublisher()))
	session := board.NewSession(opts...)
	if emoji := b.root.resolveEmoji(); emoji != "" {
		session.SetEmoji(emoji)
	}

	if b.mapPath != "" {
		if err := b.loadMap(session); err != nil {
			return err
		}
	}

	sweeper := board.NewSweeper(session, 0)
	defer sweeper.Stop()

	app := ui.New(
		ui.WithSession(session),
		ui.WithOutput(b.output),
		ui.WithExportPath(b.exportPath),
		ui.WithNotifier(b.root.notifier),
	)
	app.Run()
	return nil
}

// resolveMapPath checks the configured map directory when a bare name does
// not exist on its own.
func (b *boardCmd) resolveMapPath() string {
	path := b.mapPath
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if dir := b.root.config.MapDir; dir != "" && !filepath.IsAbs(path) {
		alt := filepath.Join(dir, path)
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return path
}

func (b *boardCmd) loadMap(session *board.Session) error {
	path := b.resolveMapPath()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open map %s: %w", path, err)
	}
	defer f.Close()
	if err := session.LoadBackground(f); err != nil {
		if b.root.notifier != nil {
			b.root.notifier.UploadRejected(err.Error())
		}
		return fmt.Errorf("failed to load map %s: %w", path, err)
	}
	return nil
}
