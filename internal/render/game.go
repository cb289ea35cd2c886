//go:build !noebiten

// Package render provides Ebiten-based rendering for matrixquiz.
// It draws the secret and guessed matrices as transformed unit squares on
// two Cartesian planes and hosts the input widgets of the game window.
package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/opd-ai/go-matrixquiz/internal/linalg"
	"github.com/opd-ai/go-matrixquiz/internal/quiz"
)

// TextRendererInterface defines the interface for text rendering.
// This allows for mocking in tests.
type TextRendererInterface interface {
	DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA)
	DrawTextCentered(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA)
	MeasureText(textStr string) (width, height float64)
	LineHeight() float64
	SetFontSize(size float64)
	FontSize() float64
}

// Key repeat timing for Backspace, in ticks.
const (
	repeatDelay    = 30
	repeatInterval = 3
)

const noFocus = -1

// Game implements ebiten.Game interface and handles rendering.
type Game struct {
	config       Config
	layout       layout
	session      *quiz.Session
	planes       *PlaneRenderer
	textRenderer TextRendererInterface
	errorHandler ErrorHandler
	renderHook   RenderHook

	secretImage   *ebiten.Image
	guessImage    *ebiten.Image
	secretSurface *CairoRenderer
	guessSurface  *CairoRenderer

	fields         [4]*TextField
	checkButton    *Button
	newRoundButton *Button
	focus          int
	inputChars     []rune

	// Set from session events, which may fire while mu is held.
	secretDirty atomic.Bool
	guessDirty  atomic.Bool
	syncFields  atomic.Bool

	mu      sync.RWMutex
	running bool
	ctx     context.Context
}

// NewGame creates a new Game instance for session with the provided
// configuration. A nil session starts a fresh randomly seeded one.
func NewGame(config Config, session *quiz.Session) *Game {
	return NewGameWithRenderer(config, session, NewTextRenderer())
}

// NewGameWithRenderer creates a new Game instance with a custom text renderer.
// This is useful for testing.
func NewGameWithRenderer(config Config, session *quiz.Session, renderer TextRendererInterface) *Game {
	if session == nil {
		session = quiz.NewSession(nil, quiz.DefaultMessages())
	}
	g := &Game{
		config:        config,
		layout:        computeLayout(config),
		session:       session,
		planes:        NewPlaneRenderer(config.Plane),
		textRenderer:  renderer,
		errorHandler:  DefaultErrorHandler,
		secretSurface: NewCairoRenderer(),
		guessSurface:  NewCairoRenderer(),
		focus:         noFocus,
	}
	g.applySurfaceConfigUnlocked()
	g.buildWidgetsUnlocked()
	g.secretDirty.Store(true)
	g.guessDirty.Store(true)

	session.OnChange(func(ev quiz.Event) {
		if ev.SecretChanged() {
			g.secretDirty.Store(true)
		}
		if ev.GuessChanged() {
			g.guessDirty.Store(true)
		}
		if ev.Type == quiz.EventNewRound {
			g.syncFields.Store(true)
		}
	})
	return g
}

// Session returns the quiz session driven by the game.
func (g *Game) Session() *quiz.Session {
	return g.session
}

// SetErrorHandler sets a custom error handler for update errors.
// If nil is passed, errors will be silently ignored.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetRenderHook installs a callback invoked after every plane redraw.
func (g *Game) SetRenderHook(hook RenderHook) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.renderHook = hook
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// Focus returns the index of the focused cell (row*2+col), or -1.
func (g *Game) Focus() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.focus
}

// SetFocus focuses cell i; any index outside 0..3 removes focus.
func (g *Game) SetFocus(i int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setFocusUnlocked(i)
}

// FocusNext moves focus to the next cell, or the previous one when reverse
// is set, wrapping around.
func (g *Game) FocusNext(reverse bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.focusNextUnlocked(reverse)
}

// FieldText returns the text of cell i.
func (g *Game) FieldText(i int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i < 0 || i >= len(g.fields) {
		return ""
	}
	return g.fields[i].Text()
}

// TypeRune feeds a typed character to the focused cell and forwards the new
// cell text to the session.
func (g *Game) TypeRune(r rune) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.typeRuneUnlocked(r)
}

// Backspace deletes from the focused cell.
func (g *Game) Backspace() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.backspaceUnlocked()
}

// Click handles a primary button press at window coordinates (x, y).
func (g *Game) Click(x, y float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clickUnlocked(x, y)
}

// Submit checks the guess against the secret.
func (g *Game) Submit() quiz.Result {
	return g.session.Check()
}

// NewRound starts a new round and resets the input cells.
func (g *Game) NewRound() {
	g.session.NewRound()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.syncFieldsUnlocked()
}

// Update implements ebiten.Game.Update.
// It is called every tick (typically 60 times per second).
func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Check for context cancellation (used for programmatic shutdown)
	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	if err := g.pollInputUnlocked(); err != nil && g.errorHandler != nil {
		g.errorHandler(err)
	}
	if g.syncFields.Swap(false) {
		g.syncFieldsUnlocked()
	}
	return nil
}

// Draw implements ebiten.Game.Draw.
// Planes are re-rendered into their offscreen images only after the session
// reported a change.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	screen.Fill(g.config.BackgroundColor)
	g.ensureSurfacesUnlocked()
	g.redrawPlanesUnlocked()

	l := g.layout
	g.drawPlaneUnlocked(screen, g.secretImage, l.secretPlane)
	g.drawPlaneUnlocked(screen, g.guessImage, l.guessPlane)

	labels := g.config.Labels
	tr := g.textRenderer
	size := tr.FontSize()
	tr.SetFontSize(size * 1.5)
	tr.DrawTextCentered(screen, labels.Heading, l.heading.X, l.heading.Y, g.config.TextColor)
	tr.SetFontSize(size)

	view := g.session.Snapshot()
	guessCaption := labels.GuessCaption
	if g.config.ShowDeterminant {
		guessCaption = fmt.Sprintf("%s (det %s)", guessCaption, linalg.FormatEntry(view.Guess.Determinant()))
	}
	tr.DrawTextCentered(screen, labels.SecretCaption, l.secretCaption.X, l.secretCaption.Y, g.config.TextColor)
	tr.DrawTextCentered(screen, guessCaption, l.guessCaption.X, l.guessCaption.Y, g.config.TextColor)
	tr.DrawTextCentered(screen, labels.InputCaption, l.inputCaption.X, l.inputCaption.Y, g.config.TextColor)

	for _, f := range g.fields {
		f.Draw(screen, tr, g.config.Widgets)
	}
	g.checkButton.Draw(screen, tr, g.config.Widgets)
	g.newRoundButton.Draw(screen, tr, g.config.Widgets)

	if view.Message != "" {
		tr.DrawTextCentered(screen, view.Message, l.message.X, l.message.Y, messageColor(view.Result, g.config.TextColor))
	}
}

// Layout implements ebiten.Game.Layout.
// The logical screen size is fixed by the plane size; Ebiten scales it to
// the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.layout.width, g.layout.height
}

// Config returns a copy of the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the game configuration. Cell contents and focus are
// kept; both planes are redrawn.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()

	texts := [4]string{}
	for i, f := range g.fields {
		texts[i] = f.Text()
	}
	g.config = config
	g.layout = computeLayout(config)
	g.planes.SetStyle(config.Plane)
	g.applySurfaceConfigUnlocked()
	g.buildWidgetsUnlocked()
	for i, f := range g.fields {
		f.SetText(texts[i])
	}
	g.setFocusUnlocked(g.focus)
	g.secretDirty.Store(true)
	g.guessDirty.Store(true)
}

// Run starts the Ebiten game loop. This function blocks until the window is closed.
func (g *Game) Run() error {
	g.mu.Lock()
	g.running = true
	width, height := g.layout.width, g.layout.height
	title := g.config.Title
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.running = false
		g.mu.Unlock()
	}()

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(g)
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

// applySurfaceConfigUnlocked pushes background and antialiasing to both
// plane surfaces. It must be called while holding the mutex.
func (g *Game) applySurfaceConfigUnlocked() {
	for _, s := range []*CairoRenderer{g.secretSurface, g.guessSurface} {
		s.SetBackground(g.config.PlaneBackground)
		s.SetAntialias(g.config.Antialias)
	}
}

// buildWidgetsUnlocked must be called while holding the mutex.
func (g *Game) buildWidgetsUnlocked() {
	guess := g.session.Guess()
	for i := range g.fields {
		g.fields[i] = NewTextField(g.layout.fields[i], linalg.FormatEntry(guess[i/2][i%2]))
	}
	g.checkButton = NewButton(g.layout.check, g.config.Labels.CheckButton)
	g.newRoundButton = NewButton(g.layout.newRound, g.config.Labels.NewRound)
}

// syncFieldsUnlocked copies the session guess into the cells.
// It must be called while holding the mutex.
func (g *Game) syncFieldsUnlocked() {
	guess := g.session.Guess()
	for i, f := range g.fields {
		f.SetText(linalg.FormatEntry(guess[i/2][i%2]))
	}
	g.setFocusUnlocked(g.focus)
}

// setFocusUnlocked must be called while holding the mutex.
func (g *Game) setFocusUnlocked(i int) {
	if i < 0 || i >= len(g.fields) {
		i = noFocus
	}
	g.focus = i
	for j, f := range g.fields {
		f.SetFocused(j == i)
	}
}

// focusNextUnlocked must be called while holding the mutex.
func (g *Game) focusNextUnlocked(reverse bool) {
	n := len(g.fields)
	switch {
	case g.focus == noFocus && reverse:
		g.setFocusUnlocked(n - 1)
	case g.focus == noFocus:
		g.setFocusUnlocked(0)
	case reverse:
		g.setFocusUnlocked((g.focus + n - 1) % n)
	default:
		g.setFocusUnlocked((g.focus + 1) % n)
	}
}

// typeRuneUnlocked must be called while holding the mutex.
func (g *Game) typeRuneUnlocked(r rune) error {
	if g.focus == noFocus {
		return nil
	}
	if !g.fields[g.focus].Insert(r) {
		return nil
	}
	return g.commitFocusedUnlocked()
}

// backspaceUnlocked must be called while holding the mutex.
func (g *Game) backspaceUnlocked() error {
	if g.focus == noFocus {
		return nil
	}
	if !g.fields[g.focus].Backspace() {
		return nil
	}
	return g.commitFocusedUnlocked()
}

// commitFocusedUnlocked must be called while holding the mutex.
func (g *Game) commitFocusedUnlocked() error {
	row, col := g.focus/2, g.focus%2
	if err := g.session.EditCell(row, col, g.fields[g.focus].Text()); err != nil {
		return fmt.Errorf("edit cell (%d,%d): %w", row, col, err)
	}
	return nil
}

// clickUnlocked must be called while holding the mutex.
func (g *Game) clickUnlocked(x, y float64) error {
	for i, f := range g.fields {
		if f.Rect().Contains(x, y) {
			g.setFocusUnlocked(i)
			return nil
		}
	}
	switch {
	case g.checkButton.Rect().Contains(x, y):
		g.session.Check()
	case g.newRoundButton.Rect().Contains(x, y):
		g.session.NewRound()
		g.syncFields.Store(false)
		g.syncFieldsUnlocked()
	default:
		g.setFocusUnlocked(noFocus)
	}
	return nil
}

// pollInputUnlocked translates this tick's mouse and keyboard state into
// game actions. It must be called while holding the mutex.
func (g *Game) pollInputUnlocked() error {
	var errs []error

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	g.checkButton.SetHovered(g.checkButton.Rect().Contains(x, y))
	g.newRoundButton.SetHovered(g.newRoundButton.Rect().Contains(x, y))
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		errs = append(errs, g.clickUnlocked(x, y))
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.focusNextUnlocked(ebiten.IsKeyPressed(ebiten.KeyShift))
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.setFocusUnlocked(noFocus)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		g.session.Check()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.session.NewRound()
	}

	g.inputChars = ebiten.AppendInputChars(g.inputChars[:0])
	if !ctrl {
		for _, r := range g.inputChars {
			errs = append(errs, g.typeRuneUnlocked(r))
		}
	}
	if repeatingKeyPressed(ebiten.KeyBackspace) {
		errs = append(errs, g.backspaceUnlocked())
	}
	return errors.Join(errs...)
}

// ensureSurfacesUnlocked allocates the offscreen plane images on first use
// and after a size change. It must be called while holding the mutex.
func (g *Game) ensureSurfacesUnlocked() {
	w, h := g.config.PlaneWidth, g.config.PlaneHeight
	if w <= 0 || h <= 0 {
		g.secretSurface.SetScreen(nil)
		g.guessSurface.SetScreen(nil)
		return
	}
	if g.secretImage == nil || g.secretImage.Bounds().Dx() != w || g.secretImage.Bounds().Dy() != h {
		g.secretImage = ebiten.NewImage(w, h)
		g.guessImage = ebiten.NewImage(w, h)
		g.secretSurface.SetScreen(g.secretImage)
		g.guessSurface.SetScreen(g.guessImage)
		g.secretDirty.Store(true)
		g.guessDirty.Store(true)
	}
}

// redrawPlanesUnlocked must be called while holding the mutex.
func (g *Game) redrawPlanesUnlocked() {
	if g.secretDirty.Swap(false) {
		g.renderPlaneUnlocked(SecretPlane, g.secretSurface, g.session.Secret(), g.config.SecretColor)
	}
	if g.guessDirty.Swap(false) {
		g.renderPlaneUnlocked(GuessPlane, g.guessSurface, g.session.Guess(), g.config.GuessColor)
	}
}

// renderPlaneUnlocked must be called while holding the mutex.
func (g *Game) renderPlaneUnlocked(kind PlaneKind, s Surface, m linalg.Matrix, stroke color.RGBA) {
	start := time.Now()
	drawn := Usable(s)
	g.planes.Render(s, m, stroke)
	if g.renderHook != nil {
		g.renderHook(kind, drawn, time.Since(start))
	}
}

// drawPlaneUnlocked must be called while holding the mutex.
func (g *Game) drawPlaneUnlocked(screen, img *ebiten.Image, at Rect) {
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(at.X, at.Y)
	screen.DrawImage(img, op)
	strokeRect(screen, at, 1, g.config.Widgets.BorderColor)
}

func messageColor(r quiz.Result, fallback color.RGBA) color.RGBA {
	switch r {
	case quiz.Correct:
		return NamedColors["darkgreen"]
	case quiz.Incorrect:
		return NamedColors["crimson"]
	default:
		return fallback
	}
}

// repeatingKeyPressed reports a press on the first tick and then at a fixed
// interval while the key is held.
func repeatingKeyPressed(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}
