// Package connectivity tracks whether the terminal believes it has a
// network link. It is a thin wrapper over a periodic reachability probe:
// reporting online does not guarantee the remote transaction service will
// actually answer, so submission paths still handle transport failures.
package connectivity

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/fekuna/omnipos-terminal/pkg/logger"
	"go.uber.org/zap"
)

// Event is a connectivity transition: became-online or became-offline.
type Event struct {
	Online bool
	At     time.Time
}

type Config struct {
	ProbeAddr     string
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

type Monitor struct {
	cfg    *Config
	logger logger.ZapLogger

	// dial is swapped out in tests.
	dial func(addr string, timeout time.Duration) error

	mu     sync.Mutex
	online bool
	subs   []chan Event
}

func NewMonitor(cfg *Config, log logger.ZapLogger) *Monitor {
	return &Monitor{
		cfg:    cfg,
		logger: log,
		dial: func(addr string, timeout time.Duration) error {
			conn, err := net.DialTimeout("tcp", addr, timeout)
			if err != nil {
				return err
			}
			return conn.Close()
		},
		// Optimistic start, like a browser's navigator.onLine; the first
		// probe corrects it.
		online: true,
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a transition and notifies subscribers. Besides the
// probe, callers that observe a definitive transport failure use it to
// flip the terminal offline immediately.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]chan Event, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if online {
		m.logger.Info("connectivity restored")
	} else {
		m.logger.Warn("connectivity lost, operating offline")
	}

	ev := Event{Online: online, At: time.Now()}
	for _, ch := range subs {
		// Non-blocking fan-out: a slow subscriber misses the event and
		// relies on its own periodic trigger instead.
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers for transition events. The channel is buffered;
// events are dropped rather than blocking the monitor.
func (m *Monitor) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Run probes the configured address until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.probe()
	ticker := time.NewTicker(m.cfg.ProbeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe()
		}
	}
}

func (m *Monitor) probe() {
	err := m.dial(m.cfg.ProbeAddr, m.cfg.ProbeTimeout)
	if err != nil {
		m.logger.Debug("connectivity probe failed", zap.String("addr", m.cfg.ProbeAddr), zap.Error(err))
	}
	m.SetOnline(err == nil)
}
