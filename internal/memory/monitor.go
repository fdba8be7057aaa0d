package memory

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/metrics"
)

// Config holds the monitor's thresholds.
type Config struct {
	// LimitBytes is the budget usage is measured against. 0 uses the current
	// Go soft memory limit.
	LimitBytes int64

	// HighWaterMark is the usage ratio below which a pause ends.
	HighWaterMark float64

	// CriticalWaterMark is the usage ratio at which work pauses.
	CriticalWaterMark float64

	// CheckInterval is how often the heap is sampled.
	CheckInterval time.Duration
}

// DefaultConfig returns the thresholds used by the CLI and the service.
func DefaultConfig() Config {
	return Config{
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     2 * time.Second,
	}
}

// Monitor samples heap usage and pauses callers of Wait under pressure.
type Monitor struct {
	config Config
	limit  int64
	sample func() uint64

	mu       sync.RWMutex
	current  uint64
	paused   bool
	resume   chan struct{}
	stopOnce sync.Once
	stop     chan struct{}
}

// NewMonitor creates a monitor. It does nothing until Start.
func NewMonitor(config Config) *Monitor {
	limit := config.LimitBytes
	if limit == 0 {
		if goLimit := debug.SetMemoryLimit(-1); goLimit > 0 && goLimit < 1<<62 {
			limit = goLimit
		}
	}

	return &Monitor{
		config: config,
		limit:  limit,
		sample: heapAlloc,
		resume: make(chan struct{}),
		stop:   make(chan struct{}),
	}
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Alloc
}

// Start begins sampling. Without a limit it is a no-op.
func (m *Monitor) Start() {
	if m.limit == 0 {
		logging.Debug("Memory monitor: no limit configured, backpressure disabled")
		return
	}
	logging.Debug("Memory monitor: limit %s, pause at %.0f%%, resume below %.0f%%",
		FormatBytes(m.limit), m.config.CriticalWaterMark*100, m.config.HighWaterMark*100)
	go m.loop()
}

// Stop ends sampling and releases every waiter.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.stop:
			return
		}
	}
}

func (m *Monitor) check() {
	alloc := m.sample()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = alloc
	if m.limit == 0 {
		return
	}

	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch {
	case usage >= m.config.CriticalWaterMark && !m.paused:
		logging.Warn("Memory critical (%.1f%% of limit), pausing thumbnail work", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()
	case usage < m.config.HighWaterMark && m.paused:
		logging.Info("Memory recovered (%.1f%% of limit), resuming thumbnail work", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.resume)
		m.resume = make(chan struct{})
	}
}

// Wait returns immediately unless work is paused, in which case it blocks
// until the pause ends, the monitor stops or ctx is done.
func (m *Monitor) Wait(ctx context.Context) error {
	m.mu.RLock()
	if !m.paused {
		m.mu.RUnlock()
		return nil
	}
	resume := m.resume
	m.mu.RUnlock()

	logging.Debug("Waiting for memory pressure to ease")

	select {
	case <-resume:
		return nil
	case <-m.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Paused reports whether work is currently paused.
func (m *Monitor) Paused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// Usage returns the last sampled heap usage as a ratio of the limit, 0 when
// there is no limit.
func (m *Monitor) Usage() float64 {
	if m.limit == 0 {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.current) / float64(m.limit)
}

// Limit returns the byte budget in use, 0 when there is none.
func (m *Monitor) Limit() int64 {
	return m.limit
}
