package handletable_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/handletable"
)

type widget struct {
	id int
}

// requirePanicsIs asserts that fn panics with an error wrapping want.
func requirePanicsIs(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "expected panic value to be an error, got %T", r)
		require.ErrorIs(t, err, want)
	}()
	fn()
}

func TestTable_AcquireGet(t *testing.T) {
	table := handletable.New32[widget]()

	w := &widget{id: 1}
	h := table.Acquire(w)

	assert.False(t, table.Expired(h))
	assert.Same(t, w, table.Get(h))
	assert.Equal(t, 1, table.Occupied())
}

func TestTable_Release(t *testing.T) {
	table := handletable.New32[widget]()

	h := table.Acquire(&widget{id: 1})
	table.Release(h)

	assert.True(t, table.Expired(h))
	assert.Nil(t, table.Get(h))
	assert.Equal(t, 0, table.Occupied())
}

func TestTable_DistinctIndices(t *testing.T) {
	table := handletable.New32[widget](handletable.WithGrowthIncrement(64))

	seen := map[uint32]bool{}
	for i := 0; i < 64; i++ {
		h := table.Acquire(&widget{id: i})
		require.False(t, seen[h.Index()], "index %d issued twice", h.Index())
		seen[h.Index()] = true
	}

	assert.Equal(t, 64, table.Occupied())
	assert.Equal(t, 64, table.Len())
}

func TestTable_FirstFitReuse(t *testing.T) {
	table := handletable.New32[widget]()

	var handles []handletable.Handle32
	for i := 0; i < 4; i++ {
		handles = append(handles, table.Acquire(&widget{id: i}))
	}

	// Free a slot in the middle; the next acquisition must reuse it.
	old := handles[1]
	table.Release(old)

	fresh := table.Acquire(&widget{id: 99})
	assert.Equal(t, old.Index(), fresh.Index())
	assert.Greater(t, fresh.Version(), old.Version())

	assert.True(t, table.Expired(old))
	assert.False(t, table.Expired(fresh))
	assert.Nil(t, table.Get(old))
	assert.Equal(t, 99, table.Get(fresh).id)
}

func TestTable_VersionBumpOnAcquire(t *testing.T) {
	table := handletable.New32[widget]()

	// Fresh slots start at MinVersion; the first acquisition bumps to 1, so
	// version 0 is never issued for a slot before the counter wraps.
	h := table.Acquire(&widget{id: 1})
	assert.Equal(t, uint32(handletable.MinVersion+1), h.Version())

	// Release leaves the version untouched; the next acquisition bumps again.
	table.Release(h)
	h2 := table.Acquire(&widget{id: 2})
	assert.Equal(t, h.Version()+1, h2.Version())
}

func TestTable_VersionWraparound(t *testing.T) {
	table := handletable.New32[widget]()

	w := &widget{id: 1}
	h := table.Acquire(w)
	require.Equal(t, uint32(0), h.Index())

	// Cycle the same slot past the full version range. The counter must run
	// 1..MaxVersion32 and then wrap to MinVersion without error.
	prev := h.Version()
	wrapped := false
	for i := 0; i < handletable.MaxVersion32+1; i++ {
		table.Release(h)
		h = table.Acquire(w)
		require.Equal(t, uint32(0), h.Index())

		if prev == handletable.MaxVersion32 {
			require.Equal(t, uint32(handletable.MinVersion), h.Version())
			wrapped = true
		} else {
			require.Equal(t, prev+1, h.Version())
		}
		prev = h.Version()
	}

	assert.True(t, wrapped)
	assert.False(t, table.Expired(h))
	assert.Same(t, w, table.Get(h))
}

func TestTable_Growth(t *testing.T) {
	table := handletable.New32[widget](handletable.WithGrowthIncrement(8))
	require.Equal(t, 8, table.Len())

	var handles []handletable.Handle32
	for i := 0; i < 8; i++ {
		handles = append(handles, table.Acquire(&widget{id: i}))
	}
	require.Equal(t, 8, table.Len())

	// One more acquisition triggers growth by exactly the increment and lands
	// in the first slot of the new region.
	h := table.Acquire(&widget{id: 8})
	assert.Equal(t, 16, table.Len())
	assert.Equal(t, uint32(8), h.Index())
	assert.Equal(t, uint32(handletable.MinVersion+1), h.Version())
	assert.False(t, table.Expired(h))

	// Previously issued handles are unaffected by growth.
	for i, old := range handles {
		assert.False(t, table.Expired(old))
		assert.Equal(t, i, table.Get(old).id)
	}
}

func TestTable_Exhaustion(t *testing.T) {
	if testing.Short() {
		t.Skip("acquires the full 32-bit index space")
	}

	table := handletable.New32[widget]()

	// The index space holds MaxIndices32 slots; the sentinel index itself is
	// never issued.
	w := &widget{}
	for i := 0; i < handletable.MaxIndices32; i++ {
		table.Acquire(w)
	}
	require.Equal(t, handletable.MaxIndices32, table.Len())
	require.Equal(t, handletable.MaxIndices32, table.Occupied())

	requirePanicsIs(t, handletable.ErrTableExhausted, func() {
		table.Acquire(w)
	})
}

func TestTable_GrowthCap(t *testing.T) {
	if testing.Short() {
		t.Skip("acquires the full 32-bit index space")
	}

	table := handletable.New32[widget]()

	// The final growth step is capped at MaxIndices32, not a full increment.
	w := &widget{}
	for i := 0; i < handletable.MaxIndices32; i++ {
		table.Acquire(w)
	}
	assert.Equal(t, handletable.MaxIndices32, table.Len())
	assert.Equal(t, uint64(handletable.MaxIndices32), table.MaxIndices())
}

func TestTable_At(t *testing.T) {
	table := handletable.New32[widget]()

	h := table.Acquire(&widget{id: 7})
	assert.Equal(t, h, table.At(uint64(h.Index())))

	// Empty slots yield an already-expired handle at the slot's current
	// version.
	empty := table.At(5)
	assert.Equal(t, uint32(5), empty.Index())
	assert.Equal(t, uint32(handletable.MinVersion), empty.Version())
	assert.True(t, table.Expired(empty))
}

func TestTable_AtOutOfRange(t *testing.T) {
	table := handletable.New32[widget]()

	requirePanicsIs(t, handletable.ErrIndexOutOfRange, func() {
		table.At(uint64(table.Len()))
	})
}

func TestTable_GetOutOfRange(t *testing.T) {
	table := handletable.New32[widget]()

	// A handle this table never issued, pointing past the current length.
	rogue := handletable.NewHandle32(uint32(table.Len()), 1)
	requirePanicsIs(t, handletable.ErrIndexOutOfRange, func() {
		table.Get(rogue)
	})
}

func TestTable_ReleaseStale(t *testing.T) {
	table := handletable.New32[widget]()

	old := table.Acquire(&widget{id: 1})
	table.Release(old)
	fresh := table.Acquire(&widget{id: 2})
	require.Equal(t, old.Index(), fresh.Index())

	// Releasing through a stale handle is a programmer error, not a
	// recoverable condition.
	requirePanicsIs(t, handletable.ErrInvalidHandle, func() {
		table.Release(old)
	})

	// The current occupant is untouched.
	assert.Equal(t, 2, table.Get(fresh).id)
}

func TestTable_ReleaseOutOfRange(t *testing.T) {
	table := handletable.New32[widget]()

	requirePanicsIs(t, handletable.ErrInvalidHandle, func() {
		table.Release(handletable.Nil32)
	})
}

func TestTable_AcquireNil(t *testing.T) {
	table := handletable.New32[widget]()

	requirePanicsIs(t, handletable.ErrNilObject, func() {
		table.Acquire(nil)
	})
}

func TestTable_All(t *testing.T) {
	table := handletable.New32[widget]()

	want := map[handletable.Handle32]int{}
	var handles []handletable.Handle32
	for i := 0; i < 6; i++ {
		h := table.Acquire(&widget{id: i})
		handles = append(handles, h)
		want[h] = i
	}
	table.Release(handles[2])
	delete(want, handles[2])

	got := map[handletable.Handle32]int{}
	for h, w := range table.All() {
		got[h] = w.id
	}
	assert.Equal(t, want, got)
}

func TestTable_Stats(t *testing.T) {
	table := handletable.New32[widget](handletable.WithGrowthIncrement(4))

	var handles []handletable.Handle32
	for i := 0; i < 5; i++ {
		handles = append(handles, table.Acquire(&widget{id: i}))
	}
	table.Release(handles[0])

	stats := table.Stats()
	assert.Equal(t, 8, stats.Slots)
	assert.Equal(t, 4, stats.Occupied)
	assert.Equal(t, uint64(5), stats.Acquires)
	assert.Equal(t, uint64(1), stats.Releases)
	assert.Equal(t, uint64(2), stats.Grows)
}

func TestTable_Metrics(t *testing.T) {
	metrics := &handletable.BasicMetricsCollector{}
	table := handletable.New32[widget](
		handletable.WithGrowthIncrement(4),
		handletable.WithMetricsCollector(metrics),
	)

	h := table.Acquire(&widget{id: 1})
	table.Get(h)
	table.Release(h)
	table.Get(h) // stale: counted as a miss

	assert.Equal(t, int64(1), metrics.AcquireCount.Load())
	assert.Equal(t, int64(1), metrics.ReleaseCount.Load())
	assert.Equal(t, int64(2), metrics.ResolveCount.Load())
	assert.Equal(t, int64(1), metrics.ResolveMisses.Load())
	assert.Equal(t, int64(1), metrics.GrowCount.Load())
	assert.Equal(t, int64(4), metrics.Slots.Load())
}

func TestTable_Options(t *testing.T) {
	// Non-positive increments fall back to the default.
	table := handletable.New32[widget](handletable.WithGrowthIncrement(0))
	assert.Equal(t, handletable.DefaultGrowthIncrement, table.GrowthIncrement())
	assert.Equal(t, handletable.DefaultGrowthIncrement, table.Len())

	// Nil logger and collector fall back to noops rather than panicking.
	table = handletable.New32[widget](
		handletable.WithLogger(nil),
		handletable.WithMetricsCollector(nil),
	)
	h := table.Acquire(&widget{id: 1})
	assert.False(t, table.Expired(h))
}

func TestTable_Handle64(t *testing.T) {
	table := handletable.New64[widget]()

	w := &widget{id: 1}
	h := table.Acquire(w)
	assert.False(t, table.Expired(h))
	assert.Same(t, w, table.Get(h))
	assert.Equal(t, uint64(handletable.MaxIndices64), table.MaxIndices())

	table.Release(h)
	assert.True(t, table.Expired(h))
	assert.Nil(t, table.Get(h))
}

func TestTable_ErrorClasses(t *testing.T) {
	// The two error classes stay distinct: stale dereference is a soft nil,
	// never a panic; the sentinels are only used for fatal preconditions.
	table := handletable.New32[widget]()

	h := table.Acquire(&widget{id: 1})
	table.Release(h)

	assert.NotPanics(t, func() {
		assert.Nil(t, table.Get(h))
	})

	assert.False(t, errors.Is(handletable.ErrInvalidHandle, handletable.ErrIndexOutOfRange))
}
