// Package valuemap provides a hash map keyed by [domain.Value], which cannot
// be used as a Go map key.
package valuemap

import (
	"iter"
	"slices"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

const initialBuckets = 8

// Map is a hash map whose keys are values. Keys are bucketed by
// [domain.Hasher.Hash] and two keys are the same if [domain.Comparer.Compare]
// returns 0, so 1 and 1.0 share an entry but "1" and 1 do not.
type Map[T any] struct {
	buckets  [][]kv[T]
	len      int
	hasher   domain.Hasher
	comparer domain.Comparer
}

// New returns an empty Map.
func New[T any](hasher domain.Hasher, comparer domain.Comparer) *Map[T] {
	return &Map[T]{
		buckets:  make([][]kv[T], initialBuckets),
		hasher:   hasher,
		comparer: comparer,
	}
}

// Len returns the number of entries.
func (m *Map[T]) Len() int {
	return m.len
}

// Get returns the value stored under key.
func (m *Map[T]) Get(key domain.Value) (T, bool) {
	bucket := m.buckets[m.bucketIndex(key)]
	for _, entry := range bucket {
		if m.comparer.Compare(key, entry.key) == 0 {
			return entry.value, true
		}
	}
	return *new(T), false
}

// Set stores value under key, replacing any previous value.
func (m *Map[T]) Set(key domain.Value, value T) {
	i := m.bucketIndex(key)
	for n, entry := range m.buckets[i] {
		if m.comparer.Compare(key, entry.key) == 0 {
			m.buckets[i][n] = kv[T]{key: key, value: value}
			return
		}
	}
	m.buckets[i] = append(m.buckets[i], kv[T]{key: key, value: value})
	m.len++
	if m.len > 2*len(m.buckets) {
		m.grow()
	}
}

// Delete removes key from the map. Missing keys are ignored.
func (m *Map[T]) Delete(key domain.Value) {
	i := m.bucketIndex(key)
	for n, entry := range m.buckets[i] {
		if m.comparer.Compare(key, entry.key) == 0 {
			m.buckets[i] = slices.Delete(m.buckets[i], n, n+1)
			m.len--
			return
		}
	}
}

// All iterates over the entries in no particular order.
func (m *Map[T]) All() iter.Seq2[domain.Value, T] {
	return func(yield func(domain.Value, T) bool) {
		for _, bucket := range m.buckets {
			for _, entry := range bucket {
				if !yield(entry.key, entry.value) {
					return
				}
			}
		}
	}
}

// Keys iterates over the keys in no particular order.
func (m *Map[T]) Keys() iter.Seq[domain.Value] {
	return func(yield func(domain.Value) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

func (m *Map[T]) bucketIndex(key domain.Value) uint64 {
	return m.hasher.Hash(key) % uint64(len(m.buckets))
}

func (m *Map[T]) grow() {
	old := m.buckets
	m.buckets = make([][]kv[T], 2*len(old))
	for _, bucket := range old {
		for _, entry := range bucket {
			i := m.bucketIndex(entry.key)
			m.buckets[i] = append(m.buckets[i], entry)
		}
	}
}

type kv[T any] struct {
	key   domain.Value
	value T
}
