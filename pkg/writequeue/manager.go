// Package writequeue provides a per-owner write queue. SQLite allows only
// one writer at a time; serializing each owner's writes through a queue
// avoids "database is locked" failures under concurrent requests.
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull returned when an owner's queue is full
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed returned when the manager is closed
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout returned when a write does not complete in time
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration.
type Config struct {
	// QueueCapacity per-owner queue capacity, default 100
	QueueCapacity int
	// WriteTimeout single write timeout, default 30s
	WriteTimeout time.Duration
	// IdleTimeout idle queue cleanup threshold, default 10m
	IdleTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

type ownerQueue struct {
	uid      int64
	ch       chan writeOp
	lastUsed atomic.Int64
	stopCh   chan struct{}
	workerWg sync.WaitGroup
}

// Manager manages the write queues of all owners.
type Manager struct {
	config Config
	logger *zap.Logger

	queues sync.Map // map[int64]*ownerQueue

	mu     sync.RWMutex
	closed bool

	cleanupWg   sync.WaitGroup
	cleanupDone chan struct{}
}

// New creates a write queue manager. A nil cfg uses DefaultConfig, a nil
// logger uses a nop logger.
func New(cfg *Config, logger *zap.Logger) *Manager {
	if cfg == nil {
		defaultCfg := DefaultConfig()
		cfg = &defaultCfg
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 100
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:      *cfg,
		logger:      logger,
		cleanupDone: make(chan struct{}),
	}

	m.cleanupWg.Add(1)
	go m.cleanupLoop()

	return m
}

// Submit enqueues fn on the owner's queue and waits for it to run.
func (m *Manager) Submit(ctx context.Context, uid int64, fn func() error) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrWriteQueueClosed
	}
	m.mu.RUnlock()

	q := m.ownerQueue(uid)
	q.lastUsed.Store(time.Now().UnixNano())

	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}

	select {
	case q.ch <- op:
	default:
		return ErrWriteQueueFull
	}

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	}
}

func (m *Manager) ownerQueue(uid int64) *ownerQueue {
	if v, ok := m.queues.Load(uid); ok {
		return v.(*ownerQueue)
	}

	q := &ownerQueue{
		uid:    uid,
		ch:     make(chan writeOp, m.config.QueueCapacity),
		stopCh: make(chan struct{}),
	}
	actual, loaded := m.queues.LoadOrStore(uid, q)
	if loaded {
		return actual.(*ownerQueue)
	}

	q.workerWg.Add(1)
	go m.worker(q)
	return q
}

func (m *Manager) worker(q *ownerQueue) {
	defer q.workerWg.Done()
	for {
		select {
		case op := <-q.ch:
			if op.ctx.Err() != nil {
				op.result <- op.ctx.Err()
				continue
			}
			op.result <- op.fn()
		case <-q.stopCh:
			// Drain what is already queued before stopping.
			for {
				select {
				case op := <-q.ch:
					op.result <- op.fn()
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) cleanupLoop() {
	defer m.cleanupWg.Done()
	ticker := time.NewTicker(m.config.IdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-m.config.IdleTimeout).UnixNano()
			m.queues.Range(func(key, value any) bool {
				q := value.(*ownerQueue)
				if q.lastUsed.Load() < cutoff && len(q.ch) == 0 {
					m.queues.Delete(key)
					close(q.stopCh)
					q.workerWg.Wait()
					m.logger.Debug("write queue reclaimed", zap.Int64("uid", q.uid))
				}
				return true
			})
		case <-m.cleanupDone:
			return
		}
	}
}

// Close stops accepting writes, drains the queues and waits for workers.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.cleanupDone)
	m.cleanupWg.Wait()

	done := make(chan struct{})
	go func() {
		m.queues.Range(func(key, value any) bool {
			q := value.(*ownerQueue)
			close(q.stopCh)
			q.workerWg.Wait()
			return true
		})
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
