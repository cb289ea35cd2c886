package matrixquiz

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-matrixquiz/internal/linalg"
	"github.com/opd-ai/go-matrixquiz/internal/quiz"
)

//go:embed testdata/*
var testFS embed.FS

func testOptions() *Options {
	opts := DefaultOptions()
	opts.Headless = true
	opts.Metrics = NewMetrics()
	return &opts
}

func impl(t *testing.T, q Quiz) *quizImpl {
	t.Helper()
	qi, ok := q.(*quizImpl)
	require.True(t, ok, "unexpected Quiz implementation %T", q)
	return qi
}

// solve types the secret into the guess cells.
func solve(t *testing.T, s *quiz.Session) {
	t.Helper()
	secret := s.Secret()
	for r := 0; r < linalg.Size; r++ {
		for c := 0; c < linalg.Size; c++ {
			require.NoError(t, s.EditCell(r, c, linalg.FormatEntry(secret[r][c])))
		}
	}
}

func TestParsePlane(t *testing.T) {
	tests := []struct {
		in      string
		want    Plane
		wantErr bool
	}{
		{"secret", SecretPlane, false},
		{"GUESS", GuessPlane, false},
		{" guess ", GuessPlane, false},
		{"both", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlane(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWhich) {
					t.Errorf("ParsePlane(%q) error = %v, want ErrInvalidWhich", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParsePlane(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestNewWithDefaults(t *testing.T) {
	q, err := New("", testOptions())
	require.NoError(t, err)

	cfg := q.Config()
	require.Equal(t, 300, cfg.Plane.Width)
	require.Equal(t, 20, cfg.Plane.Unit)
	require.False(t, q.IsRunning())

	st := q.Status()
	require.Equal(t, "defaults", st.ConfigSource)
	require.Equal(t, 1, st.Round)
	require.Len(t, st.RoundID.String(), 16)
	require.NoError(t, st.LastError)

	require.ErrorIs(t, q.ReloadConfig(), ErrNoConfigSource)
}

func TestNewWithInvalidPath(t *testing.T) {
	_, err := New("/nonexistent/quiz.lua", testOptions())
	require.Error(t, err)

	var ce *CategorizedError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, ErrorCategoryConfig, ce.Category)
	require.Equal(t, "/nonexistent/quiz.lua", ce.Context["path"])
}

func TestNewFromReaderSeedIsReproducible(t *testing.T) {
	src := `quiz.config = { seed = 42 }`
	a, err := NewFromReader(strings.NewReader(src), testOptions())
	require.NoError(t, err)
	b, err := NewFromReader(strings.NewReader(src), testOptions())
	require.NoError(t, err)

	want := linalg.NewSeededSampler(42).Sample()
	require.Equal(t, want, a.Session().Secret())
	require.Equal(t, want, b.Session().Secret())

	a.Session().NewRound()
	b.Session().NewRound()
	require.Equal(t, a.Session().Secret(), b.Session().Secret())
}

func TestSeedOptionOverridesConfig(t *testing.T) {
	opts := testOptions()
	opts.Seed = 9
	q, err := NewFromReader(strings.NewReader(`quiz.config = { seed = 42 }`), opts)
	require.NoError(t, err)
	require.Equal(t, linalg.NewSeededSampler(9).Sample(), q.Session().Secret())
}

func TestNewFromReaderRejectsInvalidConfig(t *testing.T) {
	_, err := NewFromReader(strings.NewReader(`quiz.config = { plane_width = 0 }`), testOptions())
	require.Error(t, err)

	var ce *CategorizedError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, ErrorCategoryConfig, ce.Category)
	require.Equal(t, SeverityCritical, ce.Severity)
}

func TestStrictConfigRejectsWarnings(t *testing.T) {
	src := `quiz.config = { success_message = "x", failure_message = "x" }`

	_, err := NewFromReader(strings.NewReader(src), testOptions())
	require.NoError(t, err)

	opts := testOptions()
	opts.StrictConfig = true
	_, err = NewFromReader(strings.NewReader(src), opts)
	require.Error(t, err)
}

func TestNewFromFS(t *testing.T) {
	q, err := NewFromFS(testFS, "testdata/quiz.lua", testOptions())
	require.NoError(t, err)

	cfg := q.Config()
	require.Equal(t, "embedded quiz", cfg.Window.Title)
	require.Equal(t, 200, cfg.Plane.Width)
	require.Equal(t, 160, cfg.Plane.Height)
	require.Equal(t, "embedded:testdata/quiz.lua", q.Status().ConfigSource)

	solve(t, q.Session())
	require.Equal(t, quiz.Correct, q.Session().Check())
	require.Equal(t, "Muito bem!", q.Session().Message())

	require.NoError(t, q.ReloadConfig())
	_, err = NewFromFS(testFS, "testdata/missing.lua", testOptions())
	require.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	q, err := NewFromFS(testFS, "testdata/quiz.lua", testOptions())
	require.NoError(t, err)

	for _, which := range []Plane{SecretPlane, GuessPlane} {
		t.Run(string(which), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, q.Snapshot(&buf, which))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			require.Equal(t, 200, img.Bounds().Dx())
			require.Equal(t, 160, img.Bounds().Dy())
		})
	}

	snap := q.Metrics().Snapshot()
	require.EqualValues(t, 2, snap.Snapshots)
	require.EqualValues(t, 2, snap.Renders)

	err = q.Snapshot(&bytes.Buffer{}, Plane("both"))
	require.ErrorIs(t, err, ErrInvalidWhich)
}

func TestSnapshotIsDeterministic(t *testing.T) {
	q, err := New("", testOptions())
	require.NoError(t, err)
	q.Session().SetSecret(linalg.Matrix{{2, 1}, {-1, 3}})

	var a, b bytes.Buffer
	require.NoError(t, q.Snapshot(&a, SecretPlane))
	require.NoError(t, q.Snapshot(&b, SecretPlane))
	require.Equal(t, a.Bytes(), b.Bytes())
}

func TestSnapshotHugeEntries(t *testing.T) {
	q, err := New("", testOptions())
	require.NoError(t, err)
	q.Session().SetSecret(linalg.Matrix{{1e300, 0}, {0, -1e300}})
	require.NoError(t, q.Session().EditCell(0, 0, "1e308"))
	require.NoError(t, q.Session().EditCell(1, 1, "-1.7e308"))

	for _, which := range []Plane{SecretPlane, GuessPlane} {
		var buf bytes.Buffer
		require.NoError(t, q.Snapshot(&buf, which))
		_, err := png.Decode(&buf)
		require.NoError(t, err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSnapshotWriteError(t *testing.T) {
	opts := testOptions()
	opts.ErrorTracker = NewErrorTracker(0)
	q, err := New("", opts)
	require.NoError(t, err)

	err = q.Snapshot(failingWriter{}, GuessPlane)
	require.Error(t, err)

	var ce *CategorizedError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, ErrorCategoryIO, ce.Category)
	require.Equal(t, err, q.Status().LastError)
	require.Equal(t, 1, opts.ErrorTracker.Stats().ByCategory[ErrorCategoryIO])
	require.True(t, q.Health().IsUnhealthy())
}

func TestSessionEventsFeedMetrics(t *testing.T) {
	opts := testOptions()
	q, err := New("", opts)
	require.NoError(t, err)
	s := q.Session()

	s.SetSecret(linalg.Matrix{{1, 0}, {0, 1}})
	require.NoError(t, s.EditCell(0, 0, "2"))
	require.Equal(t, quiz.Incorrect, s.Check())
	solve(t, s)
	require.Equal(t, quiz.Correct, s.Check())
	s.NewRound()

	snap := opts.Metrics.Snapshot()
	require.EqualValues(t, 2, snap.Rounds)
	require.EqualValues(t, 2, snap.Checks)
	require.EqualValues(t, 1, snap.Correct)
	require.EqualValues(t, 1, snap.Incorrect)
	require.EqualValues(t, 5, snap.Edits)
}

func TestNewRoundChangesRoundID(t *testing.T) {
	q, err := New("", testOptions())
	require.NoError(t, err)

	before := q.Status()
	q.Session().NewRound()
	after := q.Status()

	require.Equal(t, before.Round+1, after.Round)
	require.NotEqual(t, before.RoundID, after.RoundID)
}

func TestEventHandlerReceivesRoundEvents(t *testing.T) {
	q, err := New("", testOptions())
	require.NoError(t, err)

	var mu sync.Mutex
	seen := make(map[EventType]int)
	q.SetEventHandler(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		seen[ev.Type]++
	})

	solve(t, q.Session())
	q.Session().Check()
	q.Session().NewRound()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen[EventRoundSolved] == 1 && seen[EventRoundStarted] == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHandlerPanicsAreRecovered(t *testing.T) {
	q, err := New("", testOptions())
	require.NoError(t, err)

	called := make(chan struct{}, 2)
	q.SetEventHandler(func(Event) {
		called <- struct{}{}
		panic("event handler")
	})
	q.SetErrorHandler(func(error) {
		called <- struct{}{}
		panic("error handler")
	})

	_ = q.Snapshot(failingWriter{}, SecretPlane)

	for i := 0; i < 2; i++ {
		select {
		case <-called:
		case <-time.After(time.Second):
			t.Fatal("handler was not called")
		}
	}
}

func TestRunHeadless(t *testing.T) {
	opts := testOptions()
	q, err := New("", opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	require.Eventually(t, q.IsRunning, time.Second, 5*time.Millisecond)
	require.ErrorIs(t, q.Run(ctx), ErrAlreadyRunning)
	require.True(t, opts.Metrics.Snapshot().Running)

	health := q.Health()
	require.True(t, health.IsHealthy(), "health: %+v", health)
	require.False(t, q.Status().StartTime.IsZero())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.False(t, q.IsRunning())
	require.False(t, opts.Metrics.Snapshot().Running)
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReloadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.lua")
	writeConfig(t, path, `quiz.config = { title = "first", unit = 20 }`)

	opts := testOptions()
	q, err := New(path, opts)
	require.NoError(t, err)
	q.Session().SetSecret(linalg.Identity())
	q.Session().Check()
	require.Equal(t, "Errado! Tente novamente.", q.Session().Message())

	writeConfig(t, path, `quiz.config = { title = "second", unit = 25, failure_message = "Quase!" }`)
	require.NoError(t, q.ReloadConfig())

	cfg := q.Config()
	require.Equal(t, "second", cfg.Window.Title)
	require.Equal(t, 25, cfg.Plane.Unit)
	require.Equal(t, "Quase!", q.Session().Message())
	require.Equal(t, 1, q.Session().Snapshot().Attempts)
	require.EqualValues(t, 1, opts.Metrics.Snapshot().ConfigReloads)
}

func TestReloadFailuresOpenBreaker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.lua")
	writeConfig(t, path, `quiz.config = { title = "good" }`)

	opts := testOptions()
	opts.ReloadBreaker = CircuitBreakerConfig{FailureThreshold: 2, CoolDown: time.Hour}
	q, err := New(path, opts)
	require.NoError(t, err)

	writeConfig(t, path, `quiz.config = {`)
	for i := 0; i < 2; i++ {
		err := q.ReloadConfig()
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrCircuitOpen)
	}

	writeConfig(t, path, `quiz.config = { title = "fixed" }`)
	require.ErrorIs(t, q.ReloadConfig(), ErrCircuitOpen)
	require.Equal(t, "good", q.Config().Window.Title)
	require.EqualValues(t, 3, opts.Metrics.Snapshot().ReloadFailures)

	health := q.Health()
	require.Equal(t, HealthDegraded, health.Components["config"].Status)
}

func TestRunWatchesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.lua")
	writeConfig(t, path, `quiz.config = { title = "before" }`)

	opts := testOptions()
	opts.WatchConfig = true
	opts.WatchDebounce = 50 * time.Millisecond
	q, err := New(path, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()
	require.Eventually(t, q.IsRunning, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, path, `quiz.config = { title = "after" }`)
	require.Eventually(t, func() bool {
		return q.Config().Window.Title == "after"
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
