package memorystore

import (
	"container/list"
	"sync"
)

// BoundedStore is a capacity-bounded map that remembers insertion order.
// When full, adding a new key evicts the oldest one. Overwriting a key keeps
// its original position.
type BoundedStore[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // of K, oldest at front
	data     map[K]*boundedEntry[K, V]
}

type boundedEntry[K comparable, V any] struct {
	value V
	elem  *list.Element
}

// NewBoundedStore panics if capacity is not positive.
func NewBoundedStore[K comparable, V any](capacity int) *BoundedStore[K, V] {
	if capacity <= 0 {
		panic("memorystore: capacity must be positive")
	}
	return &BoundedStore[K, V]{
		capacity: capacity,
		order:    list.New(),
		data:     make(map[K]*boundedEntry[K, V], capacity),
	}
}

func (s *BoundedStore[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, evicting the oldest entry if needed.
func (s *BoundedStore[K, V]) Put(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.data[key]; ok {
		e.value = value
		return
	}
	s.insert(key, value)
}

// Add stores value only if key is absent and reports whether it did.
// Check and insert happen under one lock.
func (s *BoundedStore[K, V]) Add(key K, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		return false
	}
	s.insert(key, value)
	return true
}

// DeleteFunc removes every entry for which fn returns true and returns how
// many were removed.
func (s *BoundedStore[K, V]) DeleteFunc(fn func(K, V) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for el := s.order.Front(); el != nil; {
		next := el.Next()
		key := el.Value.(K)
		if fn(key, s.data[key].value) {
			s.order.Remove(el)
			delete(s.data, key)
			removed++
		}
		el = next
	}
	return removed
}

func (s *BoundedStore[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// insert assumes s.mu is held and key is absent.
func (s *BoundedStore[K, V]) insert(key K, value V) {
	for len(s.data) >= s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.data, oldest.Value.(K))
	}
	s.data[key] = &boundedEntry[K, V]{value: value, elem: s.order.PushBack(key)}
}
