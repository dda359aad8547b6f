package supply

import "sync"

// ConsumedSet records the ids already delivered to a session during this
// process lifetime. It is safe for concurrent use.
type ConsumedSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewConsumedSet() *ConsumedSet {
	return &ConsumedSet{ids: make(map[string]struct{})}
}

func (s *ConsumedSet) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *ConsumedSet) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// Acquire marks id as consumed and reports whether this call was the one that
// did so. Two concurrent supplies can never both acquire the same id.
func (s *ConsumedSet) Acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *ConsumedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Reset forgets every consumed id.
func (s *ConsumedSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}
