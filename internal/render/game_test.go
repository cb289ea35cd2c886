//go:build !noebiten

package render

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-matrixquiz/internal/linalg"
	"github.com/opd-ai/go-matrixquiz/internal/quiz"
)

// mockTextRenderer implements TextRendererInterface for testing
type mockTextRenderer struct {
	mu            sync.RWMutex
	drawTextCalls int
	centered      []string
	fontSize      float64
}

func newMockTextRenderer() *mockTextRenderer {
	return &mockTextRenderer{fontSize: 14.0}
}

func (m *mockTextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawTextCalls++
}

func (m *mockTextRenderer) DrawTextCentered(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.centered = append(m.centered, textStr)
}

func (m *mockTextRenderer) MeasureText(textStr string) (width, height float64) {
	return float64(len(textStr)) * 10, 16
}

func (m *mockTextRenderer) LineHeight() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fontSize * 1.2
}

func (m *mockTextRenderer) SetFontSize(size float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fontSize = size
}

func (m *mockTextRenderer) FontSize() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fontSize
}

func (m *mockTextRenderer) centeredCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.centered)
}

func (m *mockTextRenderer) drewText(s string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.centered {
		if c == s {
			return true
		}
	}
	return false
}

type stubSampler struct {
	m linalg.Matrix
}

func (s stubSampler) Sample() linalg.Matrix { return s.m }

func newTestGame(t *testing.T, secret linalg.Matrix) (*Game, *mockTextRenderer) {
	t.Helper()
	tr := newMockTextRenderer()
	session := quiz.NewSession(stubSampler{m: secret}, quiz.DefaultMessages())
	g := NewGameWithRenderer(DefaultConfig(), session, tr)
	g.SetErrorHandler(func(err error) { t.Errorf("unexpected update error: %v", err) })
	return g, tr
}

func clickField(t *testing.T, g *Game, i int) {
	t.Helper()
	x, y := g.layout.fields[i].Center()
	if err := g.Click(x, y); err != nil {
		t.Fatalf("Click(field %d) error = %v", i, err)
	}
}

func typeInto(t *testing.T, g *Game, i int, s string) {
	t.Helper()
	clickField(t, g, i)
	for _, r := range s {
		if err := g.TypeRune(r); err != nil {
			t.Fatalf("TypeRune(%q) error = %v", r, err)
		}
	}
}

func TestNewGameWithNilSession(t *testing.T) {
	g := NewGameWithRenderer(DefaultConfig(), nil, newMockTextRenderer())
	if g.Session() == nil {
		t.Fatal("Session() returned nil")
	}
	if g.Focus() != -1 {
		t.Errorf("Focus() = %d, want -1", g.Focus())
	}
	for i := 0; i < 4; i++ {
		if got := g.FieldText(i); got != "0" {
			t.Errorf("FieldText(%d) = %q, want %q", i, got, "0")
		}
	}
	if g.FieldText(7) != "" {
		t.Error("FieldText out of range should be empty")
	}
}

func TestGameLayout(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	w, h := g.Layout(1920, 1080)
	if w != g.layout.width || h != g.layout.height {
		t.Errorf("Layout() = (%d, %d), want (%d, %d)", w, h, g.layout.width, g.layout.height)
	}
	if w < 600 {
		t.Errorf("layout width %d too small for two 300 px planes", w)
	}
}

func TestGameTypingUpdatesGuess(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())

	typeInto(t, g, 0, "2")
	typeInto(t, g, 3, "-1.5")

	want := linalg.Matrix{{2, 0}, {0, -1.5}}
	if got := g.Session().Guess(); got != want {
		t.Errorf("Guess() = %v, want %v", got, want)
	}
	if g.FieldText(3) != "-1.5" {
		t.Errorf("FieldText(3) = %q", g.FieldText(3))
	}
}

func TestGameBackspace(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	typeInto(t, g, 1, "12")
	if err := g.Backspace(); err != nil {
		t.Fatalf("Backspace() error = %v", err)
	}
	if got := g.Session().Guess()[0][1]; got != 1 {
		t.Errorf("Guess[0][1] = %v, want 1", got)
	}

	g.Backspace()
	if got := g.Session().Guess()[0][1]; got != 0 {
		t.Errorf("empty cell should parse as 0, got %v", got)
	}
}

func TestGameTypingWithoutFocusIsIgnored(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	if err := g.TypeRune('5'); err != nil {
		t.Fatalf("TypeRune() error = %v", err)
	}
	if got := g.Session().Guess(); got != linalg.Zero() {
		t.Errorf("Guess() = %v, want zero", got)
	}
}

func TestGameCheckButton(t *testing.T) {
	g, tr := newTestGame(t, linalg.Identity())
	typeInto(t, g, 0, "1")
	typeInto(t, g, 3, "1")

	x, y := g.layout.check.Center()
	if err := g.Click(x, y); err != nil {
		t.Fatalf("Click(check) error = %v", err)
	}
	view := g.Session().Snapshot()
	if view.Result != quiz.Correct {
		t.Fatalf("Result = %v, want Correct", view.Result)
	}

	g.Draw(ebiten.NewImage(g.layout.width, g.layout.height))
	if !tr.drewText(quiz.DefaultSuccessMessage) {
		t.Error("success message was not drawn")
	}
}

func TestGameSubmitMismatch(t *testing.T) {
	g, _ := newTestGame(t, linalg.Matrix{{1, 2}, {3, 4}})
	typeInto(t, g, 0, "1")
	if r := g.Submit(); r != quiz.Incorrect {
		t.Errorf("Submit() = %v, want Incorrect", r)
	}
	if got := g.Session().Message(); got != quiz.DefaultFailureMessage {
		t.Errorf("Message() = %q", got)
	}
}

func TestGameNewRoundButtonResetsCells(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	typeInto(t, g, 2, "4")
	g.Submit()

	x, y := g.layout.newRound.Center()
	if err := g.Click(x, y); err != nil {
		t.Fatalf("Click(new round) error = %v", err)
	}
	view := g.Session().Snapshot()
	if view.Round != 2 || view.Message != "" || view.Result != quiz.Unevaluated {
		t.Errorf("unexpected view after new round: %+v", view)
	}
	for i := 0; i < 4; i++ {
		if got := g.FieldText(i); got != "0" {
			t.Errorf("FieldText(%d) = %q, want %q", i, got, "0")
		}
	}
}

func TestGameNewRoundMethod(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	typeInto(t, g, 0, "9")
	g.NewRound()
	if g.FieldText(0) != "0" {
		t.Errorf("FieldText(0) = %q after NewRound", g.FieldText(0))
	}
	if g.Focus() != 0 {
		t.Errorf("Focus() = %d, want focus kept on 0", g.Focus())
	}
}

func TestGameClickOutsideClearsFocus(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	clickField(t, g, 1)
	if g.Focus() != 1 {
		t.Fatalf("Focus() = %d, want 1", g.Focus())
	}
	g.Click(1, 1)
	if g.Focus() != -1 {
		t.Errorf("Focus() = %d, want -1", g.Focus())
	}
}

func TestGameFocusNext(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())

	g.FocusNext(false)
	if g.Focus() != 0 {
		t.Errorf("first Tab focus = %d, want 0", g.Focus())
	}
	for i := 0; i < 3; i++ {
		g.FocusNext(false)
	}
	g.FocusNext(false)
	if g.Focus() != 0 {
		t.Errorf("Tab should wrap to 0, got %d", g.Focus())
	}
	g.FocusNext(true)
	if g.Focus() != 3 {
		t.Errorf("Shift+Tab should wrap to 3, got %d", g.Focus())
	}

	g.SetFocus(-1)
	g.FocusNext(true)
	if g.Focus() != 3 {
		t.Errorf("Shift+Tab from no focus = %d, want 3", g.Focus())
	}
	g.SetFocus(42)
	if g.Focus() != -1 {
		t.Errorf("SetFocus(42) should clear focus, got %d", g.Focus())
	}
}

func TestGameDrawRedrawsOnlyDirtyPlanes(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())

	var mu sync.Mutex
	renders := map[PlaneKind]int{}
	g.SetRenderHook(func(kind PlaneKind, drawn bool, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		if !drawn {
			t.Errorf("%v plane render skipped", kind)
		}
		renders[kind]++
	})

	screen := ebiten.NewImage(g.layout.width, g.layout.height)
	g.Draw(screen)
	g.Draw(screen)
	if renders[SecretPlane] != 1 || renders[GuessPlane] != 1 {
		t.Fatalf("after two draws renders = %v, want one each", renders)
	}

	typeInto(t, g, 0, "3")
	g.Draw(screen)
	if renders[SecretPlane] != 1 || renders[GuessPlane] != 2 {
		t.Errorf("after edit renders = %v, want guess redrawn only", renders)
	}

	g.Session().NewRound()
	g.Draw(screen)
	if renders[SecretPlane] != 2 || renders[GuessPlane] != 3 {
		t.Errorf("after new round renders = %v, want both redrawn", renders)
	}

	g.Session().Check()
	g.Draw(screen)
	if renders[SecretPlane] != 2 || renders[GuessPlane] != 3 {
		t.Errorf("check must not redraw planes, renders = %v", renders)
	}
}

func TestGameDrawsLabels(t *testing.T) {
	g, tr := newTestGame(t, linalg.Identity())
	g.Draw(ebiten.NewImage(g.layout.width, g.layout.height))

	labels := DefaultLabels()
	for _, s := range []string{labels.Heading, labels.SecretCaption, labels.GuessCaption, labels.InputCaption, labels.CheckButton, labels.NewRound} {
		if !tr.drewText(s) {
			t.Errorf("label %q was not drawn", s)
		}
	}
	if tr.FontSize() != 14 {
		t.Errorf("heading must restore the font size, got %v", tr.FontSize())
	}
}

func TestGameShowDeterminant(t *testing.T) {
	g, tr := newTestGame(t, linalg.Identity())
	cfg := g.Config()
	cfg.ShowDeterminant = true
	g.SetConfig(cfg)

	typeInto(t, g, 0, "2")
	typeInto(t, g, 3, "3")
	g.Draw(ebiten.NewImage(g.layout.width, g.layout.height))
	if !tr.drewText("Sua Matriz (det 6)") {
		t.Errorf("determinant caption missing, drew %v", tr.centered)
	}
}

func TestGameSetConfigKeepsCells(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	typeInto(t, g, 1, "7")

	cfg := g.Config()
	cfg.PlaneWidth, cfg.PlaneHeight = 200, 200
	g.SetConfig(cfg)

	if g.FieldText(1) != "7" {
		t.Errorf("FieldText(1) = %q, want %q", g.FieldText(1), "7")
	}
	if g.Focus() != 1 {
		t.Errorf("Focus() = %d, want 1", g.Focus())
	}
	if g.layout.secretPlane.W != 200 {
		t.Errorf("layout not recomputed: %+v", g.layout.secretPlane)
	}

	var sizes []int
	g.SetRenderHook(func(kind PlaneKind, drawn bool, _ time.Duration) {
		sizes = append(sizes, int(kind))
	})
	g.Draw(ebiten.NewImage(g.layout.width, g.layout.height))
	if len(sizes) != 2 {
		t.Errorf("SetConfig should redraw both planes, got %v", sizes)
	}
	if w, _ := g.secretSurface.Size(); w != 200 {
		t.Errorf("secret surface width = %d, want 200", w)
	}
}

func TestGameSetConfigAntialias(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	if !g.secretSurface.antialias || !g.guessSurface.antialias {
		t.Fatal("plane surfaces should antialias by default")
	}

	cfg := g.Config()
	cfg.Antialias = false
	g.SetConfig(cfg)

	if g.secretSurface.antialias || g.guessSurface.antialias {
		t.Error("SetConfig should turn antialiasing off on both plane surfaces")
	}
}

func TestGameUpdateContextCancellation(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	ctx, cancel := context.WithCancel(context.Background())
	g.SetContext(ctx)

	if err := g.Update(); err != nil {
		t.Fatalf("Update() before cancel = %v", err)
	}
	cancel()
	if err := g.Update(); !errors.Is(err, ErrGameTerminated) {
		t.Errorf("Update() after cancel = %v, want ErrGameTerminated", err)
	}
}

func TestGameIsRunning(t *testing.T) {
	g, _ := newTestGame(t, linalg.Identity())
	if g.IsRunning() {
		t.Error("game should not be running before Run")
	}
}

func TestRepeatingKeyPressedIdle(t *testing.T) {
	if repeatingKeyPressed(ebiten.KeyBackspace) {
		t.Error("idle key should not repeat")
	}
}
