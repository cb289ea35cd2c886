// Package profiling writes CPU, heap and execution-trace profiles of a
// matrixquiz session for offline analysis with go tool pprof and go tool trace.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
)

// ErrRunning is returned by Start on a running profiler.
var ErrRunning = errors.New("profiler is already running")

// ErrNotRunning is returned by Stop on a stopped profiler.
var ErrNotRunning = errors.New("profiler is not running")

// Config selects the profiles to write. Empty paths disable a profile.
type Config struct {
	// CPUProfilePath receives a CPU profile covering Start to Stop.
	CPUProfilePath string
	// MemProfilePath receives a heap profile taken at Stop.
	MemProfilePath string
	// TracePath receives an execution trace covering Start to Stop.
	TracePath string
}

// Enabled reports whether any profile is configured.
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != "" || c.TracePath != ""
}

// Profiler manages one profiling session. It is safe for concurrent use.
type Profiler struct {
	config    Config
	cpuFile   *os.File
	traceFile *os.File
	running   bool
	mu        sync.Mutex
}

// New creates a stopped Profiler.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// Start opens the configured outputs and starts CPU profiling and tracing.
// On failure everything already started is undone.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrRunning
	}

	if path := p.config.CPUProfilePath; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	if path := p.config.TracePath; path != "" {
		f, err := os.Create(path)
		if err == nil {
			err = trace.Start(f)
			if err != nil {
				f.Close()
			}
		}
		if err != nil {
			p.stopCPUUnlocked()
			return fmt.Errorf("start trace: %w", err)
		}
		p.traceFile = f
	}

	p.running = true
	return nil
}

// Stop ends CPU profiling and tracing, then writes the heap profile.
// All steps run even if one fails; the errors are joined.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrNotRunning
	}
	p.running = false

	var errs []error
	if err := p.stopCPUUnlocked(); err != nil {
		errs = append(errs, err)
	}
	if p.traceFile != nil {
		trace.Stop()
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace: %w", err))
		}
		p.traceFile = nil
	}
	if p.config.MemProfilePath != "" {
		if err := WriteHeapProfile(p.config.MemProfilePath); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsRunning reports whether Start has been called without a matching Stop.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// stopCPUUnlocked must be called while holding the mutex.
func (p *Profiler) stopCPUUnlocked() error {
	if p.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := p.cpuFile.Close()
	p.cpuFile = nil
	if err != nil {
		return fmt.Errorf("close CPU profile: %w", err)
	}
	return nil
}

// WriteHeapProfile forces a garbage collection and writes a heap profile
// to path.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write heap profile: %w", err)
	}
	return nil
}
