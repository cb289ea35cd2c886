package matrixquiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-matrixquiz/internal/config"
	"github.com/opd-ai/go-matrixquiz/internal/linalg"
	"github.com/opd-ai/go-matrixquiz/internal/quiz"
	"github.com/opd-ai/go-matrixquiz/internal/render"
)

// quizImpl is the implementation behind Quiz.
type quizImpl struct {
	opts    Options
	logger  Logger
	metrics *Metrics
	tracker *ErrorTracker

	configSource string
	watchPath    string
	load         func() (*config.Config, error)
	breaker      *CircuitBreaker

	session *quiz.Session
	planes  *render.PlaneRenderer

	running   atomic.Bool
	lastError atomic.Value // error

	mu           sync.RWMutex
	cfg          *config.Config
	game         window
	roundID      RoundID
	startTime    time.Time
	errorHandler ErrorHandler
	eventHandler EventHandler
}

var _ Quiz = (*quizImpl)(nil)

// window is the open game window, if any. Reloads push new settings to it.
type window interface {
	SetConfig(render.Config)
}

// newQuiz validates cfg and assembles an instance. watchPath is the file
// to watch when Options.WatchConfig is set; load re-reads the source and
// may be nil.
func newQuiz(cfg *config.Config, source, watchPath string, load func() (*config.Config, error), opts *Options) (Quiz, error) {
	if opts == nil {
		def := DefaultOptions()
		opts = &def
	}

	logger := opts.Logger
	if logger == nil {
		logger = NopLogger()
	}
	if err := validate(cfg, opts.StrictConfig, logger); err != nil {
		return nil, NewCategorizedError(err, ErrorCategoryConfig, SeverityCritical).WithContext("source", source)
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = DefaultMetrics()
	}

	q := &quizImpl{
		opts:         *opts,
		logger:       logger,
		metrics:      metrics,
		tracker:      opts.ErrorTracker,
		configSource: source,
		watchPath:    watchPath,
		load:         load,
		planes:       render.NewPlaneRenderer(planeStyle(cfg)),
		cfg:          cfg,
		roundID:      NewRoundID(),
	}

	breakerCfg := opts.ReloadBreaker
	onStateChange := breakerCfg.OnStateChange
	breakerCfg.OnStateChange = func(from, to CircuitState) {
		logger.Warn("config reload breaker changed state", "from", from.String(), "to", to.String())
		if onStateChange != nil {
			onStateChange(from, to)
		}
	}
	q.breaker = NewCircuitBreaker(breakerCfg)

	q.session = quiz.NewSession(sampler(cfg, opts.Seed), messages(cfg))
	q.session.OnChange(q.onSessionEvent)
	metrics.IncrementRounds()
	newRoundLogger(logger, 1, q.roundID).Info("round started", "source", source)

	return q, nil
}

// validate rejects invalid configurations and logs warnings.
func validate(cfg *config.Config, strict bool, logger Logger) error {
	result := config.NewValidator().WithStrictMode(strict).Validate(cfg)
	for _, w := range result.Warnings {
		logger.Warn("config warning", "field", w.Field, "problem", w.Message)
	}
	return result.Error()
}

// Run implements Quiz.
func (q *quizImpl) Run(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q.mu.Lock()
	q.startTime = time.Now()
	q.mu.Unlock()
	q.metrics.SetRunning(true)

	if q.opts.WatchConfig && q.watchPath != "" {
		w, err := newConfigWatcher(q.watchPath, q.opts.WatchDebounce, q.ReloadConfig, func(err error) {
			q.logger.Debug("config watch", "error", err)
		})
		if err != nil {
			q.reportError(NewCategorizedError(fmt.Errorf("watch config: %w", err), ErrorCategoryIO, SeverityWarning))
		} else {
			w.Start()
			defer w.Stop()
			q.logger.Info("watching config", "path", q.watchPath)
		}
	}

	q.logger.Info("quiz started", "headless", q.opts.Headless, "source", q.configSource)
	q.emitEvent(EventStarted, "quiz started")

	var err error
	if q.opts.Headless {
		<-ctx.Done()
	} else {
		err = q.runWindow(ctx)
	}

	q.metrics.SetRunning(false)
	q.running.Store(false)
	q.logger.Info("quiz stopped")
	q.emitEvent(EventStopped, "quiz stopped")

	if err != nil {
		ce := NewCategorizedError(fmt.Errorf("window loop: %w", err), ErrorCategoryRender, SeverityCritical)
		q.reportError(ce)
		return ce
	}
	return nil
}

// ReloadConfig implements Quiz.
func (q *quizImpl) ReloadConfig() error {
	if q.load == nil {
		return ErrNoConfigSource
	}

	err := q.breaker.Execute(func() error {
		cfg, err := q.load()
		if err != nil {
			return err
		}
		if err := validate(cfg, q.opts.StrictConfig, q.logger); err != nil {
			return err
		}
		q.apply(cfg)
		return nil
	})
	if err != nil {
		q.metrics.IncrementReloadFailures()
		severity := SeverityError
		if errors.Is(err, ErrCircuitOpen) {
			severity = SeverityWarning
		}
		ce := NewCategorizedError(fmt.Errorf("reload config: %w", err), ErrorCategoryConfig, severity).
			WithContext("source", q.configSource)
		q.reportError(ce)
		return ce
	}

	q.metrics.IncrementConfigReloads()
	cfg := q.Config()
	q.logger.Info("config reloaded", "source", q.configSource,
		"secret_color", render.ToHex(cfg.Colors.Secret),
		"guess_color", render.ToHex(cfg.Colors.Guess))
	q.emitEvent(EventConfigReloaded, "config reloaded from "+q.configSource)
	return nil
}

// apply swaps in cfg. The sampler and its seed are fixed at construction.
func (q *quizImpl) apply(cfg *config.Config) {
	q.mu.Lock()
	q.cfg = cfg
	game := q.game
	q.mu.Unlock()

	q.planes.SetStyle(planeStyle(cfg))
	q.session.SetMessages(messages(cfg))
	if game != nil {
		game.SetConfig(renderConfig(cfg))
	}
}

// Snapshot implements Quiz.
func (q *quizImpl) Snapshot(w io.Writer, which Plane) error {
	q.mu.RLock()
	cfg := q.cfg
	q.mu.RUnlock()

	view := q.session.Snapshot()
	var m linalg.Matrix
	var stroke = cfg.Colors.Secret
	switch which {
	case SecretPlane:
		m = view.Secret
	case GuessPlane:
		m, stroke = view.Guess, cfg.Colors.Guess
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWhich, string(which))
	}

	surface := render.NewRasterSurface(cfg.Plane.Width, cfg.Plane.Height)
	surface.SetBackground(cfg.Colors.PlaneBackground)
	surface.Clear()

	start := time.Now()
	drawn := render.Usable(surface)
	q.planes.Render(surface, m, stroke)
	q.metrics.RecordRender(drawn, time.Since(start))

	if err := surface.WritePNG(w); err != nil {
		category := ErrorCategoryIO
		if errors.Is(err, render.ErrNoSurface) {
			category = ErrorCategoryRender
		}
		ce := NewCategorizedError(fmt.Errorf("snapshot %s: %w", which, err), category, SeverityError)
		q.reportError(ce)
		return ce
	}

	q.metrics.IncrementSnapshots()
	q.roundLogger(view.Round).Debug("snapshot written", "plane", string(which))
	return nil
}

// Session implements Quiz.
func (q *quizImpl) Session() *quiz.Session {
	return q.session
}

// Config implements Quiz.
func (q *quizImpl) Config() config.Config {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return *q.cfg
}

// IsRunning implements Quiz.
func (q *quizImpl) IsRunning() bool {
	return q.running.Load()
}

// Metrics implements Quiz.
func (q *quizImpl) Metrics() *Metrics {
	return q.metrics
}

// Status implements Quiz.
func (q *quizImpl) Status() Status {
	view := q.session.Snapshot()
	q.mu.RLock()
	defer q.mu.RUnlock()
	return Status{
		Running:      q.running.Load(),
		StartTime:    q.startTime,
		ConfigSource: q.configSource,
		Round:        view.Round,
		RoundID:      q.roundID,
		Attempts:     view.Attempts,
		LastError:    q.getError(),
	}
}

// Health implements Quiz.
func (q *quizImpl) Health() HealthCheck {
	now := time.Now()
	running := q.running.Load()
	view := q.session.Snapshot()

	components := map[string]ComponentHealth{
		"session": {
			Status:  HealthOK,
			Message: fmt.Sprintf("round %d, %d attempts", view.Round, view.Attempts),
		},
	}

	var uptime time.Duration
	if running {
		q.mu.RLock()
		uptime = now.Sub(q.startTime)
		q.mu.RUnlock()
		components["instance"] = ComponentHealth{Status: HealthOK, Message: "running"}
	} else {
		components["instance"] = ComponentHealth{Status: HealthUnhealthy, Message: "not running"}
	}

	switch state := q.breaker.State(); state {
	case CircuitClosed:
		components["config"] = ComponentHealth{Status: HealthOK, Message: "loaded from " + q.configSource}
	default:
		components["config"] = ComponentHealth{Status: HealthDegraded, Message: "reloads failing, breaker " + state.String()}
	}

	if err := q.getError(); err != nil {
		components["errors"] = ComponentHealth{Status: HealthDegraded, Message: err.Error()}
	} else {
		components["errors"] = ComponentHealth{Status: HealthOK, Message: "no recent errors"}
	}

	statuses := make([]HealthStatus, 0, len(components))
	for _, c := range components {
		statuses = append(statuses, c.Status)
	}
	overall := worst(statuses...)

	message := "all components healthy"
	switch {
	case !running:
		message = "quiz is not running"
	case overall != HealthOK:
		message = "running with problems"
	}

	return HealthCheck{
		Status:     overall,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}

// SetErrorHandler implements Quiz.
func (q *quizImpl) SetErrorHandler(handler ErrorHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.errorHandler = handler
}

// SetEventHandler implements Quiz.
func (q *quizImpl) SetEventHandler(handler EventHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.eventHandler = handler
}

// onSessionEvent runs on the goroutine that changed the session.
func (q *quizImpl) onSessionEvent(ev quiz.Event) {
	q.metrics.Observe(ev)

	switch ev.Type {
	case quiz.EventNewRound:
		id := NewRoundID()
		q.mu.Lock()
		q.roundID = id
		q.mu.Unlock()
		q.roundLogger(ev.View.Round).Info("round started")
		q.emitEvent(EventRoundStarted, fmt.Sprintf("round %d started", ev.View.Round))

	case quiz.EventCellEdited:
		q.roundLogger(ev.View.Round).Debug("cell edited", "row", ev.Row, "col", ev.Col, "value", ev.Value)

	case quiz.EventChecked:
		q.roundLogger(ev.View.Round).Info("guess checked",
			"result", ev.View.Result.String(),
			"guess", ev.View.Guess.String(),
			"attempts", ev.View.Attempts)
		if ev.View.Result == quiz.Correct {
			q.emitEvent(EventRoundSolved, fmt.Sprintf("round %d solved in %d attempts", ev.View.Round, ev.View.Attempts))
		}

	case quiz.EventSecretChanged:
		q.roundLogger(ev.View.Round).Debug("secret replaced")
	}
}

func (q *quizImpl) roundLogger(round int) Logger {
	q.mu.RLock()
	id := q.roundID
	q.mu.RUnlock()
	return newRoundLogger(q.logger, round, id)
}

// handleGameError receives errors from the window's update loop.
func (q *quizImpl) handleGameError(err error) {
	category := ErrorCategoryRender
	if errors.Is(err, linalg.ErrCellOutOfRange) {
		category = ErrorCategoryInput
	}
	q.reportError(categorize(err, category, SeverityError))
}

// reportError records err and notifies the error handler.
func (q *quizImpl) reportError(err *CategorizedError) {
	q.lastError.Store(error(err))
	q.metrics.IncrementErrors()
	if q.tracker != nil {
		q.tracker.Record(err)
	}
	q.logger.Error("quiz error", "category", err.Category.String(), "severity", err.Severity.String(), "error", err.Err)

	q.mu.RLock()
	handler := q.errorHandler
	q.mu.RUnlock()
	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					q.logger.Error("error handler panicked", "panic", r, "original_error", err)
				}
			}()
			handler(err)
		}()
	}

	q.emitEvent(EventError, err.Error())
}

func (q *quizImpl) getError() error {
	err, _ := q.lastError.Load().(error)
	return err
}

// emitEvent delivers an event to the event handler on a new goroutine.
func (q *quizImpl) emitEvent(t EventType, message string) {
	q.mu.RLock()
	handler := q.eventHandler
	q.mu.RUnlock()
	if handler == nil {
		return
	}

	ev := Event{Type: t, Timestamp: time.Now(), Message: message}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				q.logger.Error("event handler panicked", "panic", r, "event", t.String())
			}
		}()
		handler(ev)
	}()
}
