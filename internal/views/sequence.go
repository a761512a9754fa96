package views

import "sync"

// sequence numbers the requests a view issues. Only the response to the
// latest request may update the view, and nothing applies once the view is
// closed.
type sequence struct {
	mu     sync.Mutex
	latest uint64
	closed bool
}

func (s *sequence) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// apply runs fn only if n is still the latest request. fn runs under the
// sequence lock so a concurrent close cannot slip in between.
func (s *sequence) apply(n uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || n != s.latest {
		return false
	}
	fn()
	return true
}

func (s *sequence) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.latest++
}
