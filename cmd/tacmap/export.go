package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/export"
)

// exportCmd writes a map image into a debrief PDF without opening a window,
// handy for printing a clean sheet before the raid.
type exportCmd struct {
	*root
	fs      *flag.FlagSet
	mapPath string
	output  string
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	e := &exportCmd{root: r, fs: fs}
	fs.StringVar(&e.mapPath, "map", "", "map image placed on the sheet")
	fs.StringVar(&e.output, "output", "tacmap.pdf", "path for the debrief PDF")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.mapPath == "" && fs.NArg() > 0 {
		e.mapPath = fs.Arg(0)
	}
	return e, nil
}

func (e *exportCmd) Program() string { return e.root.program + " export" }

func (e *exportCmd) Synopsis() string { return "[flags] [map image]" }

func (e *exportCmd) FlagSet() *flag.FlagSet { return e.fs }

func (e *exportCmd) Run() error {
	if e.mapPath == "" {
		return &UsageError{of: e}
	}
	session := board.NewSession()
	f, err := os.Open(e.mapPath)
	if err != nil {
		return fmt.Errorf("failed to open map %s: %w", e.mapPath, err)
	}
	defer f.Close()
	if err := session.LoadBackground(f); err != nil {
		return fmt.Errorf("failed to load map %s: %w", e.mapPath, err)
	}
	if err := export.WritePDF(e.output, session.Background(), session.Actions()); err != nil {
		return err
	}
	if e.root.notifier != nil {
		e.root.notifier.Export(e.output)
	}
	fmt.Fprintf(os.Stderr, "Exported %s\n", e.output)
	return nil
}
