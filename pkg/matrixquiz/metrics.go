package matrixquiz

import (
	"expvar"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-matrixquiz/internal/quiz"
	"github.com/opd-ai/go-matrixquiz/internal/render"
)

// Metrics collects game counters. Values can be exposed through expvar,
// which serves them at /debug/vars once an HTTP server is running.
// It is safe for concurrent use.
type Metrics struct {
	rounds         atomic.Int64
	checks         atomic.Int64
	correct        atomic.Int64
	incorrect      atomic.Int64
	edits          atomic.Int64
	configReloads  atomic.Int64
	reloadFailures atomic.Int64
	snapshots      atomic.Int64
	errorsTotal    atomic.Int64

	renders *render.RenderTimings

	running atomic.Int32

	registered atomic.Bool
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{renders: render.NewRenderTimings()}
}

// RegisterExpvar publishes the metrics under the matrixquiz_ prefix.
// Only the first call has an effect.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}

	counters := map[string]*atomic.Int64{
		"matrixquiz_rounds_total":                 &m.rounds,
		"matrixquiz_checks_total":                 &m.checks,
		"matrixquiz_checks_correct_total":         &m.correct,
		"matrixquiz_checks_incorrect_total":       &m.incorrect,
		"matrixquiz_cell_edits_total":             &m.edits,
		"matrixquiz_config_reloads_total":         &m.configReloads,
		"matrixquiz_config_reload_failures_total": &m.reloadFailures,
		"matrixquiz_snapshots_total":              &m.snapshots,
		"matrixquiz_errors_total":                 &m.errorsTotal,
	}
	for name, c := range counters {
		expvar.Publish(name, expvar.Func(func() any { return c.Load() }))
	}
	expvar.Publish("matrixquiz_renders_total", expvar.Func(func() any { return m.renders.Count() }))
	expvar.Publish("matrixquiz_renders_skipped_total", expvar.Func(func() any { return m.renders.Skipped() }))
	expvar.Publish("matrixquiz_running", expvar.Func(func() any { return m.running.Load() }))
	expvar.Publish("matrixquiz_render_latency_avg_ms", expvar.Func(func() any {
		return float64(m.renders.Average()) / 1e6
	}))
	expvar.Publish("matrixquiz_render_latency_max_ms", expvar.Func(func() any {
		return float64(m.renders.Max()) / 1e6
	}))
}

// Observe updates the counters from a session event.
func (m *Metrics) Observe(ev quiz.Event) {
	switch ev.Type {
	case quiz.EventCellEdited:
		m.edits.Add(1)
	case quiz.EventChecked:
		m.checks.Add(1)
		if ev.View.Result == quiz.Correct {
			m.correct.Add(1)
		} else {
			m.incorrect.Add(1)
		}
	case quiz.EventNewRound:
		m.rounds.Add(1)
	}
}

// RenderHook returns a render.RenderHook that feeds the render counters.
func (m *Metrics) RenderHook() render.RenderHook {
	return m.renders.Hook()
}

// RecordRender counts one plane render. Skipped renders happen when the
// target surface has no pixels.
func (m *Metrics) RecordRender(drawn bool, elapsed time.Duration) {
	m.renders.Record(drawn, elapsed)
}

// IncrementRounds counts a started round.
func (m *Metrics) IncrementRounds() { m.rounds.Add(1) }

// IncrementConfigReloads counts a successful reload.
func (m *Metrics) IncrementConfigReloads() { m.configReloads.Add(1) }

// IncrementReloadFailures counts a failed or rejected reload.
func (m *Metrics) IncrementReloadFailures() { m.reloadFailures.Add(1) }

// IncrementSnapshots counts a written PNG snapshot.
func (m *Metrics) IncrementSnapshots() { m.snapshots.Add(1) }

// IncrementErrors counts a reported error.
func (m *Metrics) IncrementErrors() { m.errorsTotal.Add(1) }

// SetRunning updates the running gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.running.Store(1)
	} else {
		m.running.Store(0)
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Rounds           int64
	Checks           int64
	Correct          int64
	Incorrect        int64
	Edits            int64
	Renders          int64
	SkippedRenders   int64
	ConfigReloads    int64
	ReloadFailures   int64
	Snapshots        int64
	ErrorsTotal      int64
	Running          bool
	RenderLatencyAvg time.Duration
	RenderLatencyMin time.Duration
	RenderLatencyMax time.Duration
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Rounds:           m.rounds.Load(),
		Checks:           m.checks.Load(),
		Correct:          m.correct.Load(),
		Incorrect:        m.incorrect.Load(),
		Edits:            m.edits.Load(),
		Renders:          m.renders.Count(),
		SkippedRenders:   m.renders.Skipped(),
		ConfigReloads:    m.configReloads.Load(),
		ReloadFailures:   m.reloadFailures.Load(),
		Snapshots:        m.snapshots.Load(),
		ErrorsTotal:      m.errorsTotal.Load(),
		Running:          m.running.Load() > 0,
		RenderLatencyAvg: m.renders.Average(),
		RenderLatencyMin: m.renders.Min(),
		RenderLatencyMax: m.renders.Max(),
	}
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.rounds, &m.checks, &m.correct, &m.incorrect, &m.edits,
		&m.configReloads, &m.reloadFailures, &m.snapshots, &m.errorsTotal,
	} {
		c.Store(0)
	}
	m.renders.Reset()
	m.running.Store(0)
}

var defaultMetrics = NewMetrics()

// DefaultMetrics returns the process-wide Metrics instance.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
