package arena

import (
	"errors"
	"fmt"
)

// ErrStaleID is returned when an ID was never issued or its slot has since
// been removed (and possibly reused).
var ErrStaleID = errors.New("stale or unknown id")

// ID addresses a slot. The zero ID is never issued.
type ID struct {
	Index uint32
	Gen   uint32
}

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool { return id.Gen == 0 }

func (id ID) String() string { return fmt.Sprintf("%d:%d", id.Index, id.Gen) }

type slot[T any] struct {
	value T
	gen   uint32
	used  bool
}

// SlotMap owns values of type T addressed by generation-checked IDs.
// It is not safe for concurrent mutation; concurrent Get calls are safe
// while no goroutine mutates the map.
type SlotMap[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Insert stores v in a free slot (most recently freed first) or a new one.
func (m *SlotMap[T]) Insert(v T) ID {
	var idx uint32
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		m.slots = append(m.slots, slot[T]{})
		idx = uint32(len(m.slots) - 1)
	}
	s := &m.slots[idx]
	s.gen++
	if s.gen == 0 {
		// Generation wrapped; skip the reserved zero value.
		s.gen = 1
	}
	s.value = v
	s.used = true
	m.live++
	return ID{Index: idx, Gen: s.gen}
}

// Get returns the value at id, or false when id is stale.
func (m *SlotMap[T]) Get(id ID) (T, bool) {
	if !m.valid(id) {
		var zero T
		return zero, false
	}
	return m.slots[id.Index].value, true
}

// Contains reports whether id addresses a live slot.
func (m *SlotMap[T]) Contains(id ID) bool { return m.valid(id) }

// Remove frees the slot at id and returns its value.
func (m *SlotMap[T]) Remove(id ID) (T, error) {
	var zero T
	if !m.valid(id) {
		return zero, fmt.Errorf("id %s: %w", id, ErrStaleID)
	}
	s := &m.slots[id.Index]
	v := s.value
	s.value = zero
	s.used = false
	s.gen++
	m.free = append(m.free, id.Index)
	m.live--
	return v, nil
}

// Len returns the number of live slots.
func (m *SlotMap[T]) Len() int { return m.live }

// Cap returns the number of slots ever allocated, live or free.
func (m *SlotMap[T]) Cap() int { return len(m.slots) }

// Each calls fn for every live slot in index order.
func (m *SlotMap[T]) Each(fn func(ID, T)) {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.used {
			continue
		}
		fn(ID{Index: uint32(i), Gen: s.gen}, s.value)
	}
}

// Clear frees every live slot. Outstanding IDs become stale.
func (m *SlotMap[T]) Clear() {
	var zero T
	for i := range m.slots {
		s := &m.slots[i]
		if !s.used {
			continue
		}
		s.value = zero
		s.used = false
		s.gen++
		m.free = append(m.free, uint32(i))
	}
	m.live = 0
}

func (m *SlotMap[T]) valid(id ID) bool {
	if id.Gen == 0 || int(id.Index) >= len(m.slots) {
		return false
	}
	s := &m.slots[id.Index]
	return s.used && s.gen == id.Gen
}
