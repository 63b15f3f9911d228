// Package ordmap implements a value-ordered, key-addressable, immutable
// map: constructed once from an iterable of (K,V), it sorts entries by
// value and offers O(1) expected key lookup alongside in-order iteration.
// Directly modelled on original_source's value_ord_map.rs ValueOrdMap,
// which this repository's Index (internal/catalog) and pagination
// (internal/pagination) both depend on just as heavily as the Rust original
// does.
package ordmap

import (
	"encoding/json"
	"sort"
)

// Entry is one (key, value) pair fed to New.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an immutable, value-ordered map from K to V.
type Map[K comparable, V any] struct {
	keys       []K
	values     []V
	indexByKey map[K]int
}

// New builds a Map from entries, sorting them by value using less (a
// strict "a sorts before b" predicate) and assigning each key a dense
// index in that order. Construction is O(n log n); every subsequent
// operation is O(1) expected.
func New[K comparable, V any](entries []Entry[K, V], less func(a, b V) bool) *Map[K, V] {
	sorted := make([]Entry[K, V], len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i].Value, sorted[j].Value) })

	m := &Map[K, V]{
		keys:       make([]K, len(sorted)),
		values:     make([]V, len(sorted)),
		indexByKey: make(map[K]int, len(sorted)),
	}
	for i, e := range sorted {
		m.keys[i] = e.Key
		m.values[i] = e.Value
		m.indexByKey[e.Key] = i
	}
	return m
}

// Empty returns a zero-length Map, useful as a default value.
func Empty[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{indexByKey: make(map[K]int)}
}

// Len reports the number of entries.
func (m *Map[K, V]) Len() int { return len(m.keys) }

// Get returns the value for k, and whether k was present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	i, ok := m.indexByKey[k]
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[i], true
}

// ContainsKey reports whether k is present.
func (m *Map[K, V]) ContainsKey(k K) bool {
	_, ok := m.indexByKey[k]
	return ok
}

// IndexOf returns the dense, value-sorted position of k, and whether k was
// present.
func (m *Map[K, V]) IndexOf(k K) (int, bool) {
	i, ok := m.indexByKey[k]
	return i, ok
}

// At returns the (key, value) pair at sorted position i.
func (m *Map[K, V]) At(i int) (K, V) { return m.keys[i], m.values[i] }

// Keys returns the keys in value-sorted order. The returned slice must not
// be mutated.
func (m *Map[K, V]) Keys() []K { return m.keys }

// Values returns the values in sorted order. The returned slice must not be
// mutated.
func (m *Map[K, V]) Values() []V { return m.values }

// entry is the on-disk shape of one (key, value) pair. Marshaling as an
// ordered array (rather than a JSON object keyed by K) preserves the map's
// value-sorted order through a round-trip without needing to re-run the
// unexported less comparator at unmarshal time.
type entry[K comparable, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// MarshalJSON emits the map's entries as an ordered array, in the same
// value-sorted order Keys/Values iterate.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	entries := make([]entry[K, V], len(m.keys))
	for i := range m.keys {
		entries[i] = entry[K, V]{Key: m.keys[i], Value: m.values[i]}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON rebuilds the map from an array produced by MarshalJSON,
// trusting that it is already in value-sorted order.
func (m *Map[K, V]) UnmarshalJSON(b []byte) error {
	var entries []entry[K, V]
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	m.keys = make([]K, len(entries))
	m.values = make([]V, len(entries))
	m.indexByKey = make(map[K]int, len(entries))
	for i, e := range entries {
		m.keys[i] = e.Key
		m.values[i] = e.Value
		m.indexByKey[e.Key] = i
	}
	return nil
}
