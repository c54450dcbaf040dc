// Package safe_close coordinates graceful shutdown of attached goroutines.
package safe_close

import (
	"sync"
)

// SafeClose fans a close signal out to attached goroutines and waits for
// all of them to report done.
type SafeClose struct {
	mu          sync.Mutex
	closeSignal chan struct{}
	closed      bool
	err         error
	wg          sync.WaitGroup
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach starts f in its own goroutine. f must call done when it has
// finished cleaning up, and should begin shutdown when closeSignal fires.
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	done := func() { s.wg.Done() }
	go f(done, s.closeSignal)
}

// SendCloseSignal requests shutdown. The first non-nil err wins; later
// calls are no-ops.
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.closeSignal)
}

// WaitClosed blocks until every attached goroutine called done, then
// returns the error passed to the first SendCloseSignal, if any.
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
