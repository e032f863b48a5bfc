package dedup

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refkit/refkit"
)

type concept struct {
	id    uint64
	Value int
}

func (c *concept) Key() uint64 { return c.id }

func makeConcept(id uint64, value int) func() *concept {
	return func() *concept { return &concept{id: id, Value: value} }
}

func TestInternDeduplicates(t *testing.T) {
	tbl := NewTable[concept](logr.Discard())
	calls := 0
	make1 := func() *concept {
		calls++
		return &concept{id: 1, Value: 10}
	}

	a, err := tbl.Intern(1, make1)
	require.NoError(t, err)
	b, err := tbl.Intern(1, make1)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.True(t, refkit.Same(a, b))
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, uint32(2), a.Block().StrongCount())

	b.Release()
	a.Release()
	require.NoError(t, tbl.Close())
}

func TestInternRevivesDeadSlot(t *testing.T) {
	tbl := NewTable[concept](logr.Discard())

	a, err := tbl.Intern(1, makeConcept(1, 10))
	require.NoError(t, err)
	observer := a.Weak()
	id := a.ID()

	a.Release()
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 0, tbl.Live())
	assert.True(t, observer.Expired())

	b, err := tbl.Intern(1, makeConcept(1, 20))
	require.NoError(t, err)
	assert.Equal(t, id, b.ID())
	assert.Equal(t, 1, tbl.Revived())
	assert.False(t, observer.Expired())

	locked := observer.Lock()
	require.False(t, locked.IsNil())
	assert.Equal(t, 20, locked.Get().Value)

	locked.Release()
	observer.Release()
	b.Release()
	require.NoError(t, tbl.Close())
}

func TestLookup(t *testing.T) {
	tbl := NewTable[concept](logr.Discard())

	a, err := tbl.Intern(1, makeConcept(1, 10))
	require.NoError(t, err)

	got := tbl.Lookup(1)
	require.False(t, got.IsNil())
	assert.True(t, refkit.Same(a, got))
	got.Release()

	assert.True(t, tbl.Lookup(2).IsNil())

	a.Release()
	// Dead slot: still indexed, but not lockable.
	assert.Equal(t, 1, tbl.Len())
	assert.True(t, tbl.Lookup(1).IsNil())

	require.NoError(t, tbl.Close())
}

func TestEvictDeadSlot(t *testing.T) {
	tbl := NewTable[concept](logr.Discard())

	a, err := tbl.Intern(1, makeConcept(1, 10))
	require.NoError(t, err)
	blk := a.Block()
	a.Release()

	assert.True(t, tbl.Evict(1))
	assert.False(t, tbl.Evict(1))
	assert.Equal(t, 0, tbl.Len())
	assert.False(t, blk.Referenced())

	require.NoError(t, tbl.Close())
}

func TestEvictLiveEntryMakesNewIdentity(t *testing.T) {
	tbl := NewTable[concept](logr.Discard())

	a, err := tbl.Intern(1, makeConcept(1, 10))
	require.NoError(t, err)
	require.True(t, tbl.Evict(1))

	b, err := tbl.Intern(1, makeConcept(1, 20))
	require.NoError(t, err)
	assert.False(t, refkit.Same(a, b))
	assert.Equal(t, 10, a.Get().Value)
	assert.Equal(t, 20, b.Get().Value)

	a.Release()
	b.Release()
	require.NoError(t, tbl.Close())
}

func TestCompositeIdentity(t *testing.T) {
	tbl := NewTable[concept](logr.Discard())

	parts := []uint64{3, 5, 9}
	id := HashIDs(parts)
	assert.Equal(t, id, HashIDs([]uint64{3, 5, 9}))
	assert.NotEqual(t, id, HashIDs([]uint64{5, 3, 9}))

	a, err := tbl.Intern(id, makeConcept(id, 1))
	require.NoError(t, err)
	b, err := tbl.Intern(HashIDs(parts), makeConcept(id, 2))
	require.NoError(t, err)
	assert.True(t, refkit.Same(a, b))

	a.Release()
	b.Release()
	require.NoError(t, tbl.Close())
}

func TestInternRequiresKeyed(t *testing.T) {
	tbl := NewTable[int](logr.Discard())
	_, err := tbl.Intern(1, func() *int { v := 1; return &v })
	assert.True(t, errors.Is(err, refkit.ErrInvalidArgument))
	require.NoError(t, tbl.Close())
}

func TestCloseReleasesHolds(t *testing.T) {
	tbl := NewTable[concept](logr.Discard())

	a, err := tbl.Intern(1, makeConcept(1, 10))
	require.NoError(t, err)
	dead, err := tbl.Intern(2, makeConcept(2, 20))
	require.NoError(t, err)
	deadBlk := dead.Block()
	dead.Release()

	require.NoError(t, tbl.Close())
	assert.False(t, deadBlk.Referenced())

	// Live owners keep their object past the table's death.
	assert.Equal(t, 10, a.Get().Value)

	_, err = tbl.Intern(3, makeConcept(3, 30))
	assert.True(t, errors.Is(err, refkit.ErrInvalidOperation))
	assert.Error(t, tbl.Close())

	a.Release()
}
