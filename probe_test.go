package lphash

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// With 8 slots "a", "i", "q" and "y" all hash to slot 6; "b" hashes to 7.

func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v is not %v", err, target)
	}()
	fn()
}

func newTestMap(t *testing.T, probe ProbeStrategy) *Map[int] {
	t.Helper()
	m, err := New[int](WithProbeStrategy(probe))
	require.NoError(t, err)
	require.Equal(t, 8, m.Capacity())
	return m
}

func TestCollidingKeysProbeLinearly(t *testing.T) {
	m := newTestMap(t, ProbeFirstEmpty)

	m.Set("a", 1)
	m.Set("i", 2)
	m.Set("q", 3)

	require.Equal(t, "a", m.slots[6].key)
	require.Equal(t, "i", m.slots[7].key)
	require.Equal(t, "q", m.slots[0].key, "probe wraps around the end of the table")
	for _, key := range []string{"a", "i", "q"} {
		require.True(t, m.Has(key))
	}
}

func TestFirstEmptyStepsOverTombstone(t *testing.T) {
	m := newTestMap(t, ProbeFirstEmpty)

	m.Set("a", 1)
	m.Set("i", 2)
	require.NoError(t, m.Delete("a"))
	require.Equal(t, slotTombstone, m.slots[6].state)
	require.Equal(t, "a", m.slots[6].key)
	require.Zero(t, m.slots[6].value)

	m.Set("q", 3)
	require.Equal(t, slotOccupied, m.slots[0].state)
	require.Equal(t, "q", m.slots[0].key)
	require.Equal(t, slotTombstone, m.slots[6].state)
	require.Equal(t, 2, m.Len())
	require.Equal(t, 1, m.Tombstones())
}

func TestReuseTombstoneTakesFirstTombstone(t *testing.T) {
	m := newTestMap(t, ProbeReuseTombstone)

	m.Set("a", 1)
	m.Set("i", 2)
	require.NoError(t, m.Delete("a"))

	m.Set("q", 3)
	require.Equal(t, slotOccupied, m.slots[6].state)
	require.Equal(t, "q", m.slots[6].key)
	require.Equal(t, 2, m.Len())
	require.Equal(t, 0, m.Tombstones())
}

func TestReuseTombstonePrefersLiveMatch(t *testing.T) {
	m := newTestMap(t, ProbeReuseTombstone)

	m.Set("a", 1)
	m.Set("i", 2)
	require.NoError(t, m.Delete("a"))

	// "i" lives behind the tombstone; overwriting must not duplicate it.
	m.Set("i", 20)
	require.Equal(t, slotTombstone, m.slots[6].state)
	require.Equal(t, 20, m.slots[7].value)
	require.Equal(t, 1, m.Len())
	require.Equal(t, 1, m.Tombstones())

	_, err := m.Get("a")
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.ErrorIs(t, m.Delete("a"), ErrKeyNotFound)
}

func TestProbeStrategyChangesResizeTiming(t *testing.T) {
	churn := func(m *Map[int]) {
		m.Set("a", 1)
		require.NoError(t, m.Delete("a"))
		m.Set("i", 2)
		require.NoError(t, m.Delete("i"))
		m.Set("q", 3)
		m.Set("y", 4)
		m.Set("b", 5)
	}

	literal := newTestMap(t, ProbeFirstEmpty)
	churn(literal)
	require.Equal(t, 24, literal.Capacity())
	require.Equal(t, 0, literal.Tombstones())
	require.Equal(t, 3, literal.Len())

	reuse := newTestMap(t, ProbeReuseTombstone)
	churn(reuse)
	require.Equal(t, 8, reuse.Capacity())
	require.Equal(t, 0, reuse.Tombstones())
	require.Equal(t, 3, reuse.Len())

	for _, m := range []*Map[int]{literal, reuse} {
		for key, want := range map[string]int{"q": 3, "y": 4, "b": 5} {
			got, err := m.Get(key)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
}

func TestTombstoneChainEndsInNotFound(t *testing.T) {
	m := newTestMap(t, ProbeFirstEmpty)
	m.Set("a", 1)
	m.Set("i", 2)
	require.NoError(t, m.Delete("a"))
	require.NoError(t, m.Delete("i"))

	_, err := m.Get("q")
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.Equal(t, 0, m.Len())
	require.Equal(t, 2, m.Tombstones())
}

func exhaustedMap(probe ProbeStrategy) *Map[int] {
	m := &Map[int]{
		slots:   make([]slot[int], 4),
		maxLoad: 0.5,
		growth:  2,
		probe:   probe,
		hasher:  HashString,
		logger:  zap.NewNop(),
	}
	for i := range m.slots {
		m.slots[i] = slot[int]{state: slotTombstone, key: "gone"}
	}
	m.tombstones = len(m.slots)
	return m
}

func TestExhaustedProbePanics(t *testing.T) {
	m := exhaustedMap(ProbeFirstEmpty)
	requirePanicsWith(t, ErrInvariantViolation, func() { m.findSlot("x") })
}

func TestExhaustedProbeReusesTombstone(t *testing.T) {
	m := exhaustedMap(ProbeReuseTombstone)
	idx := m.findSlot("x")
	require.Equal(t, int(HashString("x")%4), idx)
}

func TestResizeRejectsUndersizedTarget(t *testing.T) {
	m := newTestMap(t, ProbeFirstEmpty)
	m.Set("a", 1)
	m.Set("b", 2)
	requirePanicsWith(t, ErrInvariantViolation, func() { m.resize(1) })
}

func TestNestedResizePanics(t *testing.T) {
	m := newTestMap(t, ProbeFirstEmpty)
	for _, key := range []string{"a", "b", "c", "d"} {
		m.Set(key, 0)
	}
	m.resizing = true
	requirePanicsWith(t, ErrInvariantViolation, func() { m.Set("e", 0) })
}

func TestGrowTargetLeavesHeadroom(t *testing.T) {
	m, err := New[int](WithInitialCapacity(1), WithMaxLoad(0.1), WithGrowthFactor(2))
	require.NoError(t, err)

	for i, key := range []string{"a", "b", "c", "d", "e"} {
		m.Set(key, i)
		require.LessOrEqual(t, m.LoadFactor(), 0.1)
	}
	require.Equal(t, 64, m.Capacity())
}

func TestGrowTargetRejectsOverflow(t *testing.T) {
	m := newTestMap(t, ProbeFirstEmpty)
	m.growth = math.MaxInt / 4
	requirePanicsWith(t, ErrInvariantViolation, func() { m.growTarget() })
}

func TestFindSlotUsesFullCapacity(t *testing.T) {
	m := &Map[int]{
		slots:  make([]slot[int], 3),
		hasher: func(string) uint32 { return math.MaxUint32 },
		logger: zap.NewNop(),
	}
	require.Equal(t, int(uint64(math.MaxUint32)%3), m.findSlot("k"))
}

func TestResizeDropsTombstones(t *testing.T) {
	m := newTestMap(t, ProbeFirstEmpty)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	require.NoError(t, m.Delete("b"))

	m.resize(16)
	require.Equal(t, 16, m.Capacity())
	require.Equal(t, 2, m.Len())
	require.Equal(t, 0, m.Tombstones())
	for i := range m.slots {
		require.NotEqual(t, slotTombstone, m.slots[i].state)
	}
	require.False(t, m.resizing)
}

func TestSlotStateString(t *testing.T) {
	require.Equal(t, "empty", slotEmpty.String())
	require.Equal(t, "occupied", slotOccupied.String())
	require.Equal(t, "tombstone", slotTombstone.String())
	require.Equal(t, "unknown", slotState(9).String())
}
