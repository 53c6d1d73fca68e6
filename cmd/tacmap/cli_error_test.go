package main

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mp2468/tarkov-tactical-map/internal/config"
)

func testRoot() *root {
	return &root{program: "tacmap", config: config.New()}
}

func TestSessionOptionsRejectsBadFade(t *testing.T) {
	r := testRoot()
	r.fadeName = "42s"
	if _, err := r.sessionOptions(); err == nil {
		t.Fatalf("expected error")
	} else if want := "unknown fade"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestSessionOptionsRejectsBadColor(t *testing.T) {
	r := testRoot()
	r.colorName = "plaid"
	if _, err := r.sessionOptions(); err == nil {
		t.Fatalf("expected error")
	} else if want := "unknown color"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestSessionOptionsRejectsBadTool(t *testing.T) {
	r := testRoot()
	r.toolName = "flamethrower"
	if _, err := r.sessionOptions(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSessionOptionsRejectsWidthOutOfRange(t *testing.T) {
	r := testRoot()
	r.lineWidth = 50
	if _, err := r.sessionOptions(); err == nil {
		t.Fatalf("expected error")
	} else if want := "out of range"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestResolveColorAcceptsPaletteName(t *testing.T) {
	r := testRoot()
	r.colorName = "teal"
	c, ok, err := r.resolveColor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a resolved color")
	}
	if want := (color.RGBA{0x00, 0x89, 0x7B, 0xFF}); c != want {
		t.Fatalf("expected %v, got %v", want, c)
	}
}

func TestResolveColorAcceptsHex(t *testing.T) {
	r := testRoot()
	r.colorName = "#102030"
	c, _, err := r.resolveColor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (color.RGBA{0x10, 0x20, 0x30, 0xFF}); c != want {
		t.Fatalf("expected %v, got %v", want, c)
	}
}

func TestFlagBeatsConfigForName(t *testing.T) {
	r := testRoot()
	r.config.PlayerName = "from-config"
	if got := r.resolveName(); got != "from-config" {
		t.Fatalf("expected config fallback, got %q", got)
	}
	r.playerName = "from-flag"
	if got := r.resolveName(); got != "from-flag" {
		t.Fatalf("expected flag to win, got %q", got)
	}
}

func TestEnvBeatsConfigForFade(t *testing.T) {
	r := testRoot()
	r.config.Fade = "10m"
	t.Setenv("TACMAP_FADE", "30s")
	f, ok, err := r.resolveFade()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a resolved fade")
	}
	if got := f.String(); got != "30s" {
		t.Fatalf("expected env to win, got %q", got)
	}
}

func TestParseBoardCmdPositionalMap(t *testing.T) {
	r := testRoot()
	cmd, err := parseBoardCmd([]string{"customs.png"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.mapPath != "customs.png" {
		t.Fatalf("expected positional map path, got %q", cmd.mapPath)
	}
}

func TestResolveMapPathUsesMapDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "customs.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	r := testRoot()
	r.config.MapDir = dir
	cmd := &boardCmd{root: r, mapPath: "customs.png"}
	if got, want := cmd.resolveMapPath(), filepath.Join(dir, "customs.png"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	cmd.mapPath = "missing.png"
	if got := cmd.resolveMapPath(); got != "missing.png" {
		t.Fatalf("expected unresolved path back, got %q", got)
	}
}

func TestExportRunRequiresMap(t *testing.T) {
	r := testRoot()
	cmd, err := parseExportCmd(nil, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	err = cmd.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestBoardRunMissingMap(t *testing.T) {
	r := testRoot()
	cmd, err := parseBoardCmd([]string{"-map", "no-such-map.png"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected error")
	} else if want := "failed to open map"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}
