package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/wired/game"
	"github.com/beka-birhanu/wired/game/snake"
	"github.com/beka-birhanu/wired/service/i"
	"github.com/google/uuid"
)

const (
	DefaultViewerTTL = 30 * time.Minute

	maxJanitorInterval = time.Minute
)

var (
	ErrViewerNotFound = errors.New("viewer not found")
)

// Viewer is one person looking at the board: their Board and the snake session that
// entertains them while the board loads.
type Viewer struct {
	id       uuid.UUID
	board    *Board
	snake    *game.Session
	lastSeen atomic.Int64 // Unix nanoseconds.
	cancel   context.CancelFunc
}

// ID returns the viewer id.
func (v *Viewer) ID() uuid.UUID {
	return v.id
}

// Board returns the viewer's board.
func (v *Viewer) Board() *Board {
	return v.board
}

// Snake returns the viewer's snake session. It is stopped once the board has loaded.
func (v *Viewer) Snake() *game.Session {
	return v.snake
}

func (v *Viewer) touch(now time.Time) {
	v.lastSeen.Store(now.UnixNano())
}

func (v *Viewer) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, v.lastSeen.Load()))
}

// ViewerManagerConfig holds the dependencies of a ViewerManager.
type ViewerManagerConfig struct {
	API          i.NotesAPI
	Logger       i.Logger
	LoadingDelay time.Duration
	TickInterval time.Duration
	TTL          time.Duration // Idle time before a viewer is discarded. Zero means DefaultViewerTTL.
	RandFactory  func() snake.Rand
}

// ViewerManager creates viewers, looks them up by id and discards idle ones.
type ViewerManager struct {
	viewers      map[uuid.UUID]*Viewer
	api          i.NotesAPI
	logger       i.Logger
	loadingDelay time.Duration
	tickInterval time.Duration
	ttl          time.Duration
	randFactory  func() snake.Rand
	sync.RWMutex
}

// NewViewerManager creates a ViewerManager.
func NewViewerManager(c *ViewerManagerConfig) (*ViewerManager, error) {
	if c.API == nil {
		return nil, ErrNilNotesAPI
	}
	if c.Logger == nil {
		return nil, ErrNilLogger
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultViewerTTL
	}
	randFactory := c.RandFactory
	if randFactory == nil {
		randFactory = func() snake.Rand { return nil }
	}

	return &ViewerManager{
		viewers:      make(map[uuid.UUID]*Viewer),
		api:          c.API,
		logger:       c.Logger,
		loadingDelay: c.LoadingDelay,
		tickInterval: c.TickInterval,
		ttl:          ttl,
		randFactory:  randFactory,
	}, nil
}

// NewViewer creates a viewer, starts loading its board and starts its snake session.
// The session is stopped as soon as the board leaves the loading phase.
func (m *ViewerManager) NewViewer() (*Viewer, error) {
	board, err := NewBoard(BoardConfig{API: m.api, Logger: m.logger, LoadingDelay: m.loadingDelay})
	if err != nil {
		return nil, err
	}

	session, err := game.NewSession(snake.New(m.randFactory()), game.Config{TickInterval: m.tickInterval})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	viewer := &Viewer{board: board, snake: session, cancel: cancel}
	viewer.touch(time.Now())
	m.saveViewer(viewer)

	go session.Start(ctx)
	go func() {
		_ = board.Load(ctx)
	}()
	go m.watchLoading(ctx, viewer)

	m.logger.Info(fmt.Sprintf("new viewer %s", viewer.id))
	return viewer, nil
}

// Viewer returns the viewer with the given id and marks it as active.
func (m *ViewerManager) Viewer(id uuid.UUID) (*Viewer, error) {
	m.RLock()
	viewer, ok := m.viewers[id]
	m.RUnlock()
	if !ok {
		return nil, ErrViewerNotFound
	}

	viewer.touch(time.Now())
	return viewer, nil
}

// Count returns the number of live viewers.
func (m *ViewerManager) Count() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.viewers)
}

// Close discards the viewer with the given id.
func (m *ViewerManager) Close(id uuid.UUID) {
	m.Lock()
	viewer, ok := m.viewers[id]
	delete(m.viewers, id)
	m.Unlock()

	if ok {
		m.teardown(viewer)
		m.logger.Info(fmt.Sprintf("closed viewer %s", id))
	}
}

// Run evicts idle viewers until ctx is done.
func (m *ViewerManager) Run(ctx context.Context) {
	interval := m.ttl / 2
	if interval > maxJanitorInterval {
		interval = maxJanitorInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.evictIdle(now); n > 0 {
				m.logger.Info(fmt.Sprintf("evicted %d idle viewers", n))
			}
		}
	}
}

// StopAll discards every viewer.
func (m *ViewerManager) StopAll() {
	m.Lock()
	viewers := m.viewers
	m.viewers = make(map[uuid.UUID]*Viewer)
	m.Unlock()

	for _, viewer := range viewers {
		m.teardown(viewer)
	}
}

func (m *ViewerManager) saveViewer(v *Viewer) {
	m.Lock()
	defer m.Unlock()

	v.id = uuid.New()
	for {
		if _, ok := m.viewers[v.id]; !ok {
			break
		}
		v.id = uuid.New()
	}
	m.viewers[v.id] = v
}

func (m *ViewerManager) watchLoading(ctx context.Context, v *Viewer) {
	select {
	case <-v.board.Loaded():
		v.snake.Stop()
		m.logger.Info(fmt.Sprintf("viewer %s finished loading", v.id))
	case <-ctx.Done():
	}
}

func (m *ViewerManager) evictIdle(now time.Time) int {
	m.Lock()
	var idle []*Viewer
	for id, viewer := range m.viewers {
		if viewer.idleSince(now) > m.ttl {
			idle = append(idle, viewer)
			delete(m.viewers, id)
		}
	}
	m.Unlock()

	for _, viewer := range idle {
		m.teardown(viewer)
	}
	return len(idle)
}

func (m *ViewerManager) teardown(v *Viewer) {
	v.cancel()
	v.snake.Stop()
}
