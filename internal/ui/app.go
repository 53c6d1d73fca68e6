// Package ui hosts the interactive board window: the shiny event loop, the
// paint pipeline, keyboard shortcuts and the radial menu.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
	"github.com/mp2468/tarkov-tactical-map/internal/clipboard"
	"github.com/mp2468/tarkov-tactical-map/internal/export"
	"github.com/mp2468/tarkov-tactical-map/internal/gesture"
	"github.com/mp2468/tarkov-tactical-map/internal/notify"
	"github.com/mp2468/tarkov-tactical-map/internal/render"
	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// App owns the window showing one board session.
type App struct {
	session    *board.Session
	vp         *view.Viewport
	output     string
	exportPath string
	notifier   *notify.Notifier

	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithSession sets the board session displayed by the window.
func WithSession(s *board.Session) Option { return func(a *App) { a.session = s } }

// WithViewport sets the viewport, used by tests to inject known geometry.
func WithViewport(vp *view.Viewport) Option { return func(a *App) { a.vp = vp } }

// WithOutput sets the PNG path used when saving a board snapshot.
func WithOutput(out string) Option { return func(a *App) { a.output = out } }

// WithExportPath sets the PDF path used by the export shortcut.
func WithExportPath(out string) Option { return func(a *App) { a.exportPath = out } }

// WithNotifier routes save/export notices to the desktop.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App with the provided options.
func New(opts ...Option) *App {
	a := &App{
		vp:         view.New(),
		output:     "tacmap.png",
		exportPath: "tacmap.pdf",
		updateCh:   make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.session == nil {
		a.session = board.NewSession()
	}
	a.session.SetOnChange(a.NotifyBoardChanged)
	return a
}

// NotifyBoardChanged requests a repaint when the session mutates, including
// from the sweeper goroutine.
func (a *App) NotifyBoardChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// snapshot renders the whole map with its annotations at native scale.
func (a *App) snapshot(canvasW, canvasH int) *image.RGBA {
	bg := a.session.Background()
	w, h := canvasW, canvasH
	if bg != nil {
		w = bg.Bounds().Dx()
		h = bg.Bounds().Dy()
	}
	return render.Frame(render.State{
		Width:      w,
		Height:     h,
		Background: bg,
		Scale:      1,
		Actions:    a.session.Actions(),
	})
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

func (a *App) Main(s screen.Screen) {
	width, height := 1280, 800+topBarHeight
	if bg := a.session.Background(); bg != nil {
		width = bg.Bounds().Dx()
		height = bg.Bounds().Dy() + topBarHeight
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "TacMap"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	a.vp.SetBounds(view.Pt(0, topBarHeight), view.Extent{W: float64(width), H: float64(height - topBarHeight)})
	var lastBG *image.RGBA
	syncBackground := func() {
		bg := a.session.Background()
		if bg == lastBG {
			return
		}
		lastBG = bg
		if bg == nil {
			a.vp.SetBackground(nil)
			return
		}
		a.vp.SetBackground(&view.Extent{W: float64(bg.Bounds().Dx()), H: float64(bg.Bounds().Dy())})
	}
	syncBackground()

	var message string
	var messageUntil time.Time
	showMessage := func(msg string) {
		message = msg
		log.Print(msg)
		messageUntil = time.Now().Add(2 * time.Second)
	}

	var menu *radialMenu
	router := gesture.NewRouter(a.vp, a.session, func(at view.Point) {
		menu = newRadialMenu(image.Pt(int(at.X), int(at.Y)), a.session)
	})

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan frameState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	keyboardAction := map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}

	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		img := render.ApplyShadow(a.snapshot(width, height-topBarHeight), render.DefaultShadowOptions())
		out, err := os.Create(a.output)
		if err != nil {
			log.Printf("save: %v", err)
			return
		}
		if err := png.Encode(out, img); err != nil {
			log.Printf("save: %v", err)
			if cerr := out.Close(); cerr != nil {
				log.Printf("save: closing file: %v", cerr)
			}
			return
		}
		if err := out.Close(); err != nil {
			log.Printf("save: closing file: %v", err)
			return
		}
		showMessage(fmt.Sprintf("saved %s", a.output))
		a.notifier.Save(a.output)
	})

	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if err := clipboard.WriteImage(a.snapshot(width, height-topBarHeight)); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		showMessage("board copied to clipboard")
	})

	register("export", shortcutList{{Rune: 'e', Modifiers: key.ModControl}}, func() {
		if err := export.WritePDF(a.exportPath, a.session.Background(), a.session.Actions()); err != nil {
			log.Printf("export: %v", err)
			return
		}
		showMessage(fmt.Sprintf("exported %s", a.exportPath))
		a.notifier.Export(a.exportPath)
	})

	register("undo", shortcutList{{Rune: 'u'}, {Rune: 'z', Modifiers: key.ModControl}}, func() {
		if !a.session.Undo() {
			showMessage("nothing to undo")
		}
	})

	register("lock", shortcutList{{Rune: 'l'}}, func() {
		if a.session.ToggleBackgroundLock() {
			showMessage("map locked")
		} else {
			showMessage("map unlocked")
		}
	})

	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	// lookupShortcut tolerates events where either the rune or the code
	// carries the binding.
	lookupShortcut := func(e key.Event) (string, bool) {
		r := unicode.ToLower(e.Rune)
		if name, ok := keyboardAction[KeyShortcut{Rune: r, Code: e.Code, Modifiers: e.Modifiers}]; ok {
			return name, true
		}
		if name, ok := keyboardAction[KeyShortcut{Rune: r, Modifiers: e.Modifiers}]; ok {
			return name, true
		}
		if name, ok := keyboardAction[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]; ok {
			return name, true
		}
		return "", false
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			a.vp.SetBounds(view.Pt(0, topBarHeight), view.Extent{W: float64(width), H: float64(height - topBarHeight)})
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			syncBackground()
			acts := a.session.Actions()
			if preview, ok := router.Preview(); ok {
				acts = append(acts, preview)
			}
			st := frameState{
				width:        width,
				height:       height,
				background:   a.session.Background(),
				scale:        a.vp.Scale(),
				pan:          a.vp.Pan(),
				actions:      acts,
				users:        a.session.Users(),
				localID:      a.session.ID(),
				tool:         a.session.Tool(),
				col:          a.session.Color(),
				lineWidth:    a.session.LineWidth(),
				fade:         a.session.Fade(),
				locked:       a.session.BackgroundLocked(),
				message:      message,
				messageUntil: messageUntil,
				menu:         menu,
			}
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			if menu != nil {
				if e.Direction == mouse.DirPress {
					menu.press(image.Pt(int(e.X), int(e.Y)))
					menu = nil
					w.Send(paint.Event{})
				}
				continue
			}
			if int(e.Y) < topBarHeight && !router.Active() {
				continue
			}
			if router.Handle(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			switch e.Direction {
			case key.DirRelease:
				if e.Code == key.CodeSpacebar {
					router.SetSpaceHeld(false)
				}
				continue
			case key.DirPress:
			default:
				continue
			}
			if e.Code == key.CodeSpacebar {
				router.SetSpaceHeld(true)
				continue
			}
			if action, ok := lookupShortcut(e); ok {
				handleShortcut(action)
				continue
			}
			switch e.Rune {
			case 'p', 'P':
				a.session.SetTool(board.ToolPen)
			case 'a', 'A':
				a.session.SetTool(board.ToolArrow)
			case 'o', 'O':
				a.session.SetTool(board.ToolCircle)
			case 'e', 'E':
				a.session.SetTool(board.ToolEmoji)
			case '1', '2', '3', '4', '5', '6', '7', '8', '9':
				a.session.SetLineWidth(int(e.Rune - '0'))
			case '[':
				a.session.SetFade(a.session.Fade().Prev())
				showMessage(fmt.Sprintf("fade %s", a.session.Fade()))
				w.Send(paint.Event{})
			case ']':
				a.session.SetFade(a.session.Fade().Next())
				showMessage(fmt.Sprintf("fade %s", a.session.Fade()))
				w.Send(paint.Event{})
			case '+', '=':
				a.vp.ZoomAroundCenter(a.vp.Scale() * 1.25)
				w.Send(paint.Event{})
			case '-':
				a.vp.ZoomAroundCenter(a.vp.Scale() / 1.25)
				w.Send(paint.Event{})
			case '0':
				a.vp.Reset()
				w.Send(paint.Event{})
			case 'q', 'Q':
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		}
	}
}
