package board

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(clock *fakeClock, opts ...Option) *Session {
	opts = append([]Option{WithClock(clock.now)}, opts...)
	return NewSession(opts...)
}

func TestRecordAppliesCurrentSettings(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestSession(clock, WithName("ripley"))
	s.SetColor(color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF})
	s.SetLineWidth(5)
	s.SetFade(Fade30s)

	a := s.Record(ToolArrow, view.Pt(10, 20), view.Pt(110, 220))
	if a.ID == "" {
		t.Fatalf("action should be assigned an id")
	}
	if a.AuthorName != "ripley" {
		t.Fatalf("want author ripley, got %q", a.AuthorName)
	}
	if a.Width != 5 {
		t.Fatalf("want width 5, got %d", a.Width)
	}
	want := clock.t.Add(30 * time.Second)
	if !a.ExpireAt.Equal(want) {
		t.Fatalf("want expiry %v, got %v", want, a.ExpireAt)
	}
}

func TestFadeResolvedAtCreation(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newTestSession(clock)
	s.SetFade(Fade10s)
	a := s.Record(ToolPen, view.Pt(0, 0), view.Pt(1, 1))

	// Changing the fade afterwards must not move the existing expiry.
	s.SetFade(FadePermanent)
	got := s.Actions()
	if len(got) != 1 || !got[0].ExpireAt.Equal(a.ExpireAt) {
		t.Fatalf("existing action expiry changed after SetFade: %v", got)
	}
}

func TestSweepStrictBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Unix(5000, 0)}
	s := newTestSession(clock)
	s.SetFade(Fade10s)
	s.Record(ToolCircle, view.Pt(0, 0), view.Pt(5, 0))

	clock.advance(9999 * time.Millisecond)
	if n := s.Sweep(clock.now()); n != 0 {
		t.Fatalf("action should survive 1ms before expiry, swept %d", n)
	}
	if len(s.Actions()) != 1 {
		t.Fatalf("action missing before expiry")
	}

	clock.advance(2 * time.Millisecond)
	if n := s.Sweep(clock.now()); n != 1 {
		t.Fatalf("action should be swept past expiry, swept %d", n)
	}
	if len(s.Actions()) != 0 {
		t.Fatalf("expired action still present")
	}
}

func TestSweepExactInstantDrops(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	s.SetFade(Fade10s)
	s.Record(ToolPen, view.Pt(0, 0), view.Pt(1, 1))
	clock.advance(10 * time.Second)
	if n := s.Sweep(clock.now()); n != 1 {
		t.Fatalf("action expiring exactly now should be dropped, swept %d", n)
	}
}

func TestSweepKeepsPermanent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	s.Record(ToolPen, view.Pt(0, 0), view.Pt(1, 1))
	clock.advance(1000 * time.Hour)
	if n := s.Sweep(clock.now()); n != 0 {
		t.Fatalf("permanent action swept after %v", 1000*time.Hour)
	}
}

func TestSweepPreservesOrder(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	s.SetFade(Fade10s)
	short := s.Record(ToolPen, view.Pt(0, 0), view.Pt(1, 1))
	s.SetFade(FadePermanent)
	first := s.Record(ToolArrow, view.Pt(1, 1), view.Pt(2, 2))
	second := s.Record(ToolCircle, view.Pt(2, 2), view.Pt(3, 3))

	clock.advance(time.Minute)
	s.Sweep(clock.now())
	got := s.Actions()
	if len(got) != 2 {
		t.Fatalf("want 2 survivors, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("survivor order changed; swept %v, kept %v then %v", short.ID, got[0].ID, got[1].ID)
	}
}

func TestUndoRemovesLastAction(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	a := s.Record(ToolPen, view.Pt(0, 0), view.Pt(1, 1))
	b := s.Record(ToolPen, view.Pt(1, 1), view.Pt(2, 2))
	s.Record(ToolPen, view.Pt(2, 2), view.Pt(3, 3))

	if !s.Undo() {
		t.Fatalf("undo with actions present should report true")
	}
	got := s.Actions()
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("undo should remove only the newest action, got %d actions", len(got))
	}

	s.Undo()
	s.Undo()
	if s.Undo() {
		t.Fatalf("undo on an empty board should report false")
	}
}

func TestLineWidthClamped(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	s.SetLineWidth(0)
	if s.LineWidth() != MinLineWidth {
		t.Fatalf("width 0 should clamp to %d, got %d", MinLineWidth, s.LineWidth())
	}
	s.SetLineWidth(99)
	if s.LineWidth() != MaxLineWidth {
		t.Fatalf("width 99 should clamp to %d, got %d", MaxLineWidth, s.LineWidth())
	}
}

func TestRosterUpsertOnRename(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock, WithName("alpha"))
	s.SetUserName("bravo")
	s.SetColor(color.RGBA{R: 1, G: 2, B: 3, A: 0xFF})

	users := s.Users()
	if len(users) != 1 {
		t.Fatalf("rename should not grow the roster, got %d entries", len(users))
	}
	if users[0].Name != "bravo" {
		t.Fatalf("roster entry not renamed, got %q", users[0].Name)
	}
	if users[0].Color != (color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}) {
		t.Fatalf("roster entry color not updated, got %v", users[0].Color)
	}
}

func TestUpsertRemoteUser(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	s.UpsertUser(User{ID: "remote-1", Name: "delta", Color: color.RGBA{A: 0xFF}})
	s.UpsertUser(User{ID: "remote-1", Name: "echo", Color: color.RGBA{A: 0xFF}})
	users := s.Users()
	if len(users) != 2 {
		t.Fatalf("want local + one remote, got %d entries", len(users))
	}
	if users[1].Name != "echo" {
		t.Fatalf("remote upsert did not replace entry, got %q", users[1].Name)
	}
}

func TestBackgroundLock(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	first := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := s.SetBackground(first); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	if !s.ToggleBackgroundLock() {
		t.Fatalf("first toggle should report locked")
	}
	if err := s.SetBackground(image.NewRGBA(image.Rect(0, 0, 16, 16))); err != ErrBackgroundLocked {
		t.Fatalf("locked upload should return ErrBackgroundLocked, got %v", err)
	}
	if got := s.Background(); got.Bounds().Dx() != 8 {
		t.Fatalf("locked upload replaced the background")
	}
	if s.ToggleBackgroundLock() {
		t.Fatalf("second toggle should report unlocked")
	}
	if err := s.SetBackground(image.NewRGBA(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatalf("unlocked upload failed: %v", err)
	}
}

func TestLoadBackgroundRejectsGarbage(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	err := s.LoadBackground(strings.NewReader("this is not an image"))
	if err == nil {
		t.Fatalf("garbage upload should be rejected")
	}
	if s.Background() != nil {
		t.Fatalf("rejected upload must not touch the background")
	}
}

func TestLoadBackgroundPNG(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 6))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := s.LoadBackground(&buf); err != nil {
		t.Fatalf("png upload failed: %v", err)
	}
	bg := s.Background()
	if bg == nil || bg.Bounds().Dx() != 4 || bg.Bounds().Dy() != 6 {
		t.Fatalf("background dimensions wrong: %v", bg.Bounds())
	}
}

type recordingPublisher struct {
	got []Action
}

func (p *recordingPublisher) Publish(a Action) { p.got = append(p.got, a) }

func TestPublisherSeesEveryAction(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	pub := &recordingPublisher{}
	s := newTestSession(clock, WithPublisher(pub))
	s.Record(ToolPen, view.Pt(0, 0), view.Pt(1, 1))
	s.Record(ToolEmoji, view.Pt(5, 5), view.Pt(5, 5))
	if len(pub.got) != 2 {
		t.Fatalf("publisher saw %d actions, want 2", len(pub.got))
	}
	if pub.got[1].Emoji == "" {
		t.Fatalf("emoji action published without its glyph")
	}
}

func TestFadeCycle(t *testing.T) {
	f := Fade10s
	seen := map[Fade]bool{}
	for i := 0; i < 6; i++ {
		seen[f] = true
		f = f.Next()
	}
	if f != Fade10s {
		t.Fatalf("cycling six times should wrap back to 10s, got %v", f)
	}
	if len(seen) != 6 {
		t.Fatalf("cycle should visit all six settings, saw %d", len(seen))
	}
	if FadePermanent.Next() != Fade10s || Fade10s.Prev() != FadePermanent {
		t.Fatalf("cycle endpoints do not wrap")
	}
}

func TestParseFadeRoundTrip(t *testing.T) {
	for f := Fade10s; f <= FadePermanent; f++ {
		got, err := ParseFade(f.String())
		if err != nil || got != f {
			t.Fatalf("ParseFade(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFade("forever"); err == nil {
		t.Fatalf("unknown fade should error")
	}
}

func TestSweeperStops(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(clock)
	sw := NewSweeper(s, 10*time.Millisecond)
	sw.Stop()
	sw.Stop()
}
