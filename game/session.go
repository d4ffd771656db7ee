// Package game runs snake simulations on a fixed tick and streams their frames.
package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/wired/game/snake"
)

// Session-related errors.
var (
	ErrNilSimulation   = errors.New("simulation is nil")
	ErrInvalidInterval = errors.New("tick interval must be positive")
)

const (
	DefaultTickInterval = 200 * time.Millisecond

	keyBufferSize = 16 // Key events waiting for the loop.
)

// Config holds the settings of a Session.
type Config struct {
	TickInterval time.Duration // Zero means DefaultTickInterval.
}

// Session owns one simulation and drives it from a single goroutine.
// Key events are queued on a channel and applied between ticks; the ticker only exists while
// the simulation is running.
type Session struct {
	sim      *snake.Simulation
	interval time.Duration
	keys     chan snake.Key   // Pending key-down events.
	frames   chan snake.Frame // Latest unread frame.
	stop     chan struct{}    // Closed by Stop.
	done     chan struct{}    // Closed when the loop has exited.
	started  atomic.Bool
	stopOnce sync.Once
	current  snake.Frame
	mu       sync.RWMutex
}

// NewSession creates a Session for sim. Call Start to run it.
func NewSession(sim *snake.Simulation, c Config) (*Session, error) {
	if sim == nil {
		return nil, ErrNilSimulation
	}

	interval := c.TickInterval
	if interval == 0 {
		interval = DefaultTickInterval
	}
	if interval < 0 {
		return nil, ErrInvalidInterval
	}

	return &Session{
		sim:      sim,
		interval: interval,
		keys:     make(chan snake.Key, keyBufferSize),
		frames:   make(chan snake.Frame, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		current:  sim.Snapshot(),
	}, nil
}

// Start runs the loop until ctx is done or Stop is called. It blocks; run it in a goroutine.
// A session can be started once; later calls return immediately.
func (s *Session) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	defer close(s.done)
	defer close(s.frames)

	var (
		ticker *time.Ticker
		tickC  <-chan time.Time
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer stopTicker()

	s.publish(s.sim.Snapshot())
	for {
		// Stop wins over pending keys and ticks.
		select {
		case <-s.stop:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case k := <-s.keys:
			wasRunning := s.sim.Running()
			if !s.sim.HandleKey(k) {
				continue
			}
			if !wasRunning && s.sim.Running() {
				ticker = time.NewTicker(s.interval)
				tickC = ticker.C
				s.publish(s.sim.Snapshot())
			}
		case <-tickC:
			if s.sim.Tick() == snake.Collided {
				stopTicker()
			}
			s.publish(s.sim.Snapshot())
		}
	}
}

// Input queues a key-down event. It reports false when the session is stopped or the queue is full.
func (s *Session) Input(k snake.Key) bool {
	select {
	case <-s.stop:
		return false
	default:
	}

	select {
	case s.keys <- k:
		return true
	default:
		return false
	}
}

// Frames delivers the latest frame after each visible change. It is closed when the loop exits.
// A slow reader only misses intermediate frames.
func (s *Session) Frames() <-chan snake.Frame {
	return s.frames
}

// Done is closed once the loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the last published frame.
func (s *Session) Snapshot() snake.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Stop ends the loop and waits for it to exit. No tick fires after Stop returns.
// It is safe to call Stop more than once and before Start; a later Start returns at once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	if s.started.CompareAndSwap(false, true) {
		// The loop never ran; claim it so Start cannot publish afterwards.
		close(s.frames)
		close(s.done)
		return
	}
	<-s.done
}

// publish records f and replaces any unread frame with it.
func (s *Session) publish(f snake.Frame) {
	s.mu.Lock()
	s.current = f
	s.mu.Unlock()

	select {
	case <-s.frames:
	default:
	}
	select {
	case s.frames <- f:
	default:
	}
}
