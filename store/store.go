// Package store provides named asset collections shared by the engine and
// the audio package.
package store

import "sort"

// Store is a string-keyed collection of assets such as textures, fonts or
// sounds. The zero value is not usable; create one with New.
type Store[T any] struct {
	items map[string]T
}

// New returns an empty store.
func New[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// With adds item under id and returns the store, for chained setup.
func (s *Store[T]) With(id string, item T) *Store[T] {
	s.items[id] = item
	return s
}

// Add stores item under id, replacing any existing item.
func (s *Store[T]) Add(id string, item T) {
	s.items[id] = item
}

// Get returns the item stored under id.
func (s *Store[T]) Get(id string) (T, bool) {
	item, ok := s.items[id]
	return item, ok
}

// Remove deletes id and returns the item it held.
func (s *Store[T]) Remove(id string) (T, bool) {
	item, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	return item, ok
}

// Len returns the number of stored items.
func (s *Store[T]) Len() int {
	return len(s.items)
}

// Names returns the stored ids in sorted order.
func (s *Store[T]) Names() []string {
	names := make([]string, 0, len(s.items))
	for id := range s.items {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}
