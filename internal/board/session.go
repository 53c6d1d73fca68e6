// Package board holds the shared state of a tactical-map session: the
// roster, the current tool settings, the map background and the append-only
// action list.
package board

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mp2468/tarkov-tactical-map/internal/view"
)

// Publisher receives every action committed to the session. Publish runs on
// the committing goroutine with no locks held, so implementations should
// return quickly.
type Publisher interface {
	Publish(Action)
}

// Line widths accepted by SetLineWidth.
const (
	MinLineWidth = 1
	MaxLineWidth = 20
)

// ErrBackgroundLocked is returned when an upload arrives while the map is
// pinned in place.
var ErrBackgroundLocked = errors.New("background is locked")

// Session is the mutable board state. All methods are safe for concurrent
// use; the sweeper and the UI share one session.
type Session struct {
	mu sync.RWMutex

	id    string
	name  string
	color color.RGBA
	tool  Tool
	width int
	fade  Fade
	emoji string

	background *image.RGBA
	bgLocked   bool

	actions []Action
	users   []User

	now       func() time.Time
	publisher Publisher
	onChange  func()
}

// Option configures a Session at construction.
type Option func(*Session)

// WithName sets the local player name.
func WithName(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.name = name
		}
	}
}

// WithColor sets the local player color.
func WithColor(c color.RGBA) Option {
	return func(s *Session) { s.color = c }
}

// WithTool sets the starting tool.
func WithTool(t Tool) Option {
	return func(s *Session) { s.tool = t }
}

// WithLineWidth sets the starting line width.
func WithLineWidth(w int) Option {
	return func(s *Session) { s.width = clampWidth(w) }
}

// WithFade sets the starting fade.
func WithFade(f Fade) Option {
	return func(s *Session) { s.fade = f }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPublisher routes committed actions to the given publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Session) { s.publisher = p }
}

// WithOnChange registers a callback fired after every state change, used by
// the UI to schedule a repaint.
func WithOnChange(fn func()) Option {
	return func(s *Session) { s.onChange = fn }
}

// NewSession builds a session with the local user already on the roster.
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:    uuid.NewString(),
		name:  "anonymous",
		color: color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
		tool:  ToolPen,
		width: 3,
		fade:  FadePermanent,
		emoji: "!",
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.users = []User{{ID: s.id, Name: s.name, Color: s.color}}
	return s
}

func clampWidth(w int) int {
	if w < MinLineWidth {
		return MinLineWidth
	}
	if w > MaxLineWidth {
		return MaxLineWidth
	}
	return w
}

// SetOnChange replaces the change callback, letting the UI attach itself
// to a session built earlier by the CLI.
func (s *Session) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// notifyChange runs the change callback outside the lock.
func (s *Session) notifyChange() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// ID reports the local user id.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// UserName reports the local player name.
func (s *Session) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Color reports the current stroke color.
func (s *Session) Color() color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.color
}

// Tool reports the current tool.
func (s *Session) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// LineWidth reports the current stroke width.
func (s *Session) LineWidth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width
}

// Fade reports the lifetime applied to new actions.
func (s *Session) Fade() Fade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fade
}

// Emoji reports the glyph stamped by the emoji tool.
func (s *Session) Emoji() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emoji
}

// BackgroundLocked reports whether uploads are currently ignored.
func (s *Session) BackgroundLocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bgLocked
}

// Background returns the current map image, or nil before the first upload.
// The returned image is shared; callers must not write to it.
func (s *Session) Background() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

// Actions returns a snapshot of the committed actions in z-order.
func (s *Session) Actions() []Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// Users returns a snapshot of the roster.
func (s *Session) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// SetTool switches the active tool.
func (s *Session) SetTool(t Tool) {
	s.mu.Lock()
	s.tool = t
	s.mu.Unlock()
	s.notifyChange()
}

// SetColor changes the stroke color and updates the roster entry. The claim
// is advisory: another user holding the same color does not block it.
func (s *Session) SetColor(c color.RGBA) {
	s.mu.Lock()
	s.color = c
	s.upsertLocalUser()
	s.mu.Unlock()
	s.notifyChange()
}

// SetLineWidth changes the stroke width, clamped to [1,20].
func (s *Session) SetLineWidth(w int) {
	s.mu.Lock()
	s.width = clampWidth(w)
	s.mu.Unlock()
	s.notifyChange()
}

// SetFade changes the lifetime applied to actions created from now on.
// Existing actions keep the expiry they were created with.
func (s *Session) SetFade(f Fade) {
	s.mu.Lock()
	s.fade = f
	s.mu.Unlock()
	s.notifyChange()
}

// SetUserName renames the local player and updates the roster entry.
func (s *Session) SetUserName(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	s.name = name
	s.upsertLocalUser()
	s.mu.Unlock()
	s.notifyChange()
}

// SetEmoji changes the glyph stamped by the emoji tool.
func (s *Session) SetEmoji(glyph string) {
	if glyph == "" {
		return
	}
	s.mu.Lock()
	s.emoji = glyph
	s.mu.Unlock()
	s.notifyChange()
}

// upsertLocalUser keeps exactly one roster entry per identity. Callers hold
// the write lock.
func (s *Session) upsertLocalUser() {
	for i := range s.users {
		if s.users[i].ID == s.id {
			s.users[i].Name = s.name
			s.users[i].Color = s.color
			return
		}
	}
	s.users = append(s.users, User{ID: s.id, Name: s.name, Color: s.color})
}

// UpsertUser adds or refreshes a roster entry for a remote identity.
func (s *Session) UpsertUser(u User) {
	if u.ID == "" {
		return
	}
	s.mu.Lock()
	found := false
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
			found = true
			break
		}
	}
	if !found {
		s.users = append(s.users, u)
	}
	s.mu.Unlock()
	s.notifyChange()
}

// SetBackground replaces the map image. Uploads while locked are ignored
// and reported via ErrBackgroundLocked so the caller can notice the user.
// Concurrent uploads race last-write-wins; the session does not order them.
func (s *Session) SetBackground(img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image provided")
	}
	s.mu.Lock()
	if s.bgLocked {
		s.mu.Unlock()
		return ErrBackgroundLocked
	}
	s.background = toRGBA(img)
	s.mu.Unlock()
	s.notifyChange()
	return nil
}

// LoadBackground decodes an uploaded file and installs it as the map.
// Anything that does not decode as an image is rejected without touching
// the current background.
func (s *Session) LoadBackground(r io.Reader) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("upload is not a usable image: %w", err)
	}
	log.Printf("Loaded %s map background %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())
	return s.SetBackground(img)
}

// ToggleBackgroundLock flips the upload lock and reports the new state.
func (s *Session) ToggleBackgroundLock() bool {
	s.mu.Lock()
	s.bgLocked = !s.bgLocked
	locked := s.bgLocked
	s.mu.Unlock()
	s.notifyChange()
	return locked
}

// Record commits an annotation using the current settings. The expiry is
// resolved here, once, from the fade in effect at creation time.
func (s *Session) Record(tool Tool, start, end view.Point) Action {
	s.mu.Lock()
	a := Action{
		ID:         uuid.NewString(),
		AuthorID:   s.id,
		AuthorName: s.name,
		Color:      s.color,
		Tool:       tool,
		Width:      s.width,
		Start:      start,
		End:        end,
	}
	if tool == ToolEmoji {
		a.Emoji = s.emoji
	}
	if d, ok := s.fade.Duration(); ok {
		a.ExpireAt = s.now().Add(d)
	}
	s.actions = append(s.actions, a)
	pub := s.publisher
	s.mu.Unlock()

	if pub != nil {
		pub.Publish(a)
	}
	s.notifyChange()
	return a
}

// Undo removes the most recently committed action, regardless of author,
// and reports whether anything was removed.
func (s *Session) Undo() bool {
	s.mu.Lock()
	if len(s.actions) == 0 {
		s.mu.Unlock()
		return false
	}
	s.actions = s.actions[:len(s.actions)-1]
	s.mu.Unlock()
	s.notifyChange()
	return true
}

// Sweep drops every action whose expiry has passed and reports how many
// were removed. Relative z-order of survivors is preserved.
func (s *Session) Sweep(now time.Time) int {
	s.mu.Lock()
	kept := s.actions[:0]
	for _, a := range s.actions {
		if !a.Expired(now) {
			kept = append(kept, a)
		}
	}
	removed := len(s.actions) - len(kept)
	s.actions = kept
	s.mu.Unlock()
	if removed > 0 {
		s.notifyChange()
	}
	return removed
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == image.Pt(0, 0) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
