package lphash

type slotState uint8

const (
	// never used since the last resize
	slotEmpty slotState = iota
	slotOccupied
	// deleted; keeps the probe chain intact until the next resize
	slotTombstone
)

func (s slotState) String() string {
	switch s {
	case slotEmpty:
		return "empty"
	case slotOccupied:
		return "occupied"
	case slotTombstone:
		return "tombstone"
	default:
		return "unknown"
	}
}

// slot is one cell of the table. key is kept for tombstones as well so a dump
// of the table still shows what used to live there.
type slot[V any] struct {
	state slotState
	key   string
	value V
}

func (s *slot[V]) occupy(key string, value V) {
	s.state = slotOccupied
	s.key = key
	s.value = value
}

func (s *slot[V]) bury() {
	var zero V
	s.state = slotTombstone
	s.value = zero
}
