// Package observe holds the subscriber list shared by the stores. Callbacks
// run synchronously, in subscription order, on the goroutine that changed the
// state.
package observe

import (
	"sort"
	"sync"
)

type Subscribers[T any] struct {
	lock sync.Mutex
	next int
	fns  map[int]func(T)
}

// Add registers fn and returns a function that removes it again.
func (s *Subscribers[T]) Add(fn func(T)) func() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	return func() {
		s.lock.Lock()
		delete(s.fns, id)
		s.lock.Unlock()
	}
}

func (s *Subscribers[T]) Notify(v T) {
	s.lock.Lock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.fns[id])
	}
	s.lock.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
