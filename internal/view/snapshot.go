package view

import "sync"

// Snapshot keeps the last delivered result of a view's read along with a
// generation counter. A read records the generation before it starts and
// applies its result only if no invalidation happened in between, so a
// slow response can never overwrite the effect of a newer mutation.
type Snapshot[T any] struct {
	mu    sync.Mutex
	gen   uint64
	value T
	valid bool
}

// Generation returns the token a read must present when applying.
func (s *Snapshot[T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Apply stores the value if gen is still current and reports whether it
// was kept. Stale results are discarded.
func (s *Snapshot[T]) Apply(gen uint64, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.value = value
	s.valid = true
	return true
}

// Invalidate bumps the generation, discarding the held value and any
// in-flight read started before now.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.valid = false
}

// Current returns the held value and whether it is still valid.
func (s *Snapshot[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.valid
}
