package lphash

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

var (
	// ErrKeyNotFound is returned by Get and Delete for absent keys.
	ErrKeyNotFound = errors.New("lphash: key not found")
	// ErrInvariantViolation is the panic payload for internal corruption:
	// probing ran around the whole table, or a resize could not hold the
	// live entries. No sequence of public calls should produce it.
	ErrInvariantViolation = errors.New("lphash: invariant violation")
)

// Map is a string-keyed hash table using open addressing with linear probing.
// Deleted entries leave tombstones behind which are dropped on the next
// resize. A Map is not safe for concurrent use.
type Map[V any] struct {
	slots      []slot[V]
	count      int
	tombstones int

	maxLoad  float64
	growth   int
	probe    ProbeStrategy
	hasher   Hasher
	logger   *zap.Logger
	resizing bool
}

// New creates a map from DefaultConfig adjusted by opts.
func New[V any](opts ...Option) (*Map[V], error) {
	return NewWithConfig[V](DefaultConfig(), opts...)
}

// NewWithConfig creates a map from cfg adjusted by opts.
func NewWithConfig[V any](cfg Config, opts ...Option) (*Map[V], error) {
	o := options{
		cfg:    cfg,
		hasher: HashString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	return &Map[V]{
		slots:   make([]slot[V], o.cfg.InitialCapacity),
		maxLoad: o.cfg.MaxLoad,
		growth:  o.cfg.GrowthFactor,
		probe:   o.cfg.Probe,
		hasher:  o.hasher,
		logger:  o.logger,
	}, nil
}

// Len returns the number of live entries.
func (m *Map[V]) Len() int {
	return m.count
}

// Capacity returns the number of slots.
func (m *Map[V]) Capacity() int {
	return len(m.slots)
}

// Tombstones returns the number of deleted slots not yet reclaimed.
func (m *Map[V]) Tombstones() int {
	return m.tombstones
}

// LoadFactor returns the share of slots that are live or tombstoned.
func (m *Map[V]) LoadFactor() float64 {
	return float64(m.count+m.tombstones) / float64(len(m.slots))
}

// Get returns the value stored under key, or an error wrapping
// ErrKeyNotFound.
func (m *Map[V]) Get(key string) (V, error) {
	s := &m.slots[m.findSlot(key)]
	if s.state != slotOccupied {
		var zero V
		return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return s.value, nil
}

// Lookup is Get in comma-ok form.
func (m *Map[V]) Lookup(key string) (V, bool) {
	v, err := m.Get(key)
	return v, err == nil
}

func (m *Map[V]) Has(key string) bool {
	return m.slots[m.findSlot(key)].state == slotOccupied
}

// Set stores value under key, replacing any previous value. It grows the
// table first when the insertion would push the load past the configured
// maximum. The check also runs when key is already present, so an overwrite
// can trigger a resize.
func (m *Map[V]) Set(key string, value V) {
	if m.overloaded(1) {
		if m.resizing {
			panic(fmt.Errorf("%w: nested resize while reinserting %q", ErrInvariantViolation, key))
		}
		m.resize(m.growTarget())
	}

	s := &m.slots[m.findSlot(key)]
	switch s.state {
	case slotEmpty:
		m.count++
	case slotTombstone:
		m.count++
		m.tombstones--
	case slotOccupied:
	default:
		panic(fmt.Errorf("%w: slot in state %v", ErrInvariantViolation, s.state))
	}
	s.occupy(key, value)
}

// Delete removes key, leaving a tombstone in its slot. It returns an error
// wrapping ErrKeyNotFound if key is absent.
func (m *Map[V]) Delete(key string) error {
	s := &m.slots[m.findSlot(key)]
	if s.state != slotOccupied {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	s.bury()
	m.count--
	m.tombstones++
	return nil
}

// Range calls fn for every live entry in slot order until fn returns false.
// Slot order is unrelated to insertion order and changes on resize. fn must
// not modify the map.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for i := range m.slots {
		s := &m.slots[i]
		if s.state != slotOccupied {
			continue
		}
		if !fn(s.key, s.value) {
			return
		}
	}
}

// Keys returns the live keys in no particular order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.count)
	m.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// overloaded reports whether adding n more used slots would exceed maxLoad
// at the current capacity.
func (m *Map[V]) overloaded(n int) bool {
	return float64(m.count+m.tombstones+n)/float64(len(m.slots)) > m.maxLoad
}

// growTarget multiplies the capacity by the growth factor until the live
// entries plus the pending insertion fit under maxLoad. One step is enough
// for every table past its first few slots.
func (m *Map[V]) growTarget() int {
	target := m.grown(len(m.slots))
	for float64(m.count+1)/float64(target) > m.maxLoad {
		target = m.grown(target)
	}
	return target
}

func (m *Map[V]) grown(capacity int) int {
	if capacity > math.MaxInt/m.growth {
		panic(fmt.Errorf("%w: growing %d slots by %d overflows int",
			ErrInvariantViolation, capacity, m.growth))
	}
	return capacity * m.growth
}

// findSlot returns the index of the slot holding key, or the slot a new copy
// of key should go into. Callers tell the two apart by the slot state.
func (m *Map[V]) findSlot(key string) int {
	capacity := len(m.slots)
	start := int(uint64(m.hasher(key)) % uint64(capacity))
	firstTombstone := -1

	for i := 0; i < capacity; i++ {
		idx := (start + i) % capacity
		s := &m.slots[idx]

		switch s.state {
		case slotEmpty:
			if firstTombstone >= 0 {
				return firstTombstone
			}
			return idx
		case slotOccupied:
			if s.key == key {
				return idx
			}
		case slotTombstone:
			if m.probe == ProbeReuseTombstone && firstTombstone < 0 {
				firstTombstone = idx
			}
		default:
			panic(fmt.Errorf("%w: slot %d in state %v", ErrInvariantViolation, idx, s.state))
		}
	}

	if firstTombstone >= 0 {
		return firstTombstone
	}
	panic(fmt.Errorf("%w: probed all %d slots for %q without an empty slot (live=%d, tombstones=%d)",
		ErrInvariantViolation, capacity, key, m.count, m.tombstones))
}

func (m *Map[V]) resize(capacity int) {
	if capacity < m.count || capacity < 1 {
		panic(fmt.Errorf("%w: cannot resize %d live entries into %d slots",
			ErrInvariantViolation, m.count, capacity))
	}

	m.logger.Debug("resize triggered",
		zap.Int("old-capacity", len(m.slots)),
		zap.Int("new-capacity", capacity),
		zap.Int("live", m.count),
		zap.Int("tombstones", m.tombstones))

	old := m.slots
	m.slots = make([]slot[V], capacity)
	m.count = 0
	m.tombstones = 0

	m.resizing = true
	defer func() { m.resizing = false }()
	for i := range old {
		if old[i].state == slotOccupied {
			m.Set(old[i].key, old[i].value)
		}
	}

	m.logger.Debug("resize complete",
		zap.Int("capacity", len(m.slots)),
		zap.Int("live", m.count))
}
