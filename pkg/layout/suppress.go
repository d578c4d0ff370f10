package layout

import "sync"

// suppressor reference-counts edge suppression so that overlapping runs
// never leave an edge transparent.
type suppressor struct {
	mu     sync.Mutex
	counts map[string]int
}

func newSuppressor() *suppressor {
	return &suppressor{counts: make(map[string]int)}
}

// acquire suppresses ids on t and returns the release function.
func (s *suppressor) acquire(t Target, ids []string) func() {
	s.mu.Lock()
	for _, id := range ids {
		if s.counts[id] == 0 {
			t.SetEdgeSuppressed(id, true)
		}
		s.counts[id]++
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, id := range ids {
				s.counts[id]--
				if s.counts[id] <= 0 {
					delete(s.counts, id)
					t.SetEdgeSuppressed(id, false)
				}
			}
		})
	}
}

// active returns the number of suppressed edges.
func (s *suppressor) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counts)
}
