package refkit

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario: the owner dies, a weak observer keeps the dead slot, and a
// fresh object reoccupies it without the observer re-indexing.
func TestReviveReoccupiesDeadBlock(t *testing.T) {
	var destroyed int
	a := New(&testObj{Value: 1, destroyed: &destroyed})
	w := a.Weak()
	blk := a.Block()
	id := a.ID()

	a.Assign(Strong[*testObj]{})
	require.Equal(t, 1, destroyed)
	require.True(t, w.Expired())

	revived, err := Revive(&testObj{Value: 2, destroyed: &destroyed}, w.Block())
	require.NoError(t, err)
	assert.False(t, w.Expired())
	assert.Equal(t, uint32(1), blk.StrongCount())
	assert.Equal(t, uint32(1), blk.WeakCount())
	assert.Equal(t, id, revived.ID())
	assert.Same(t, blk, revived.Block())

	locked := w.Lock()
	require.False(t, locked.IsNil())
	assert.Equal(t, 2, locked.Get().Value)

	locked.Release()
	revived.Release()
	assert.Equal(t, 2, destroyed)
	w.Release()
}

func TestReviveNilObject(t *testing.T) {
	s := New(&testObj{})
	_, err := Revive[testObj](nil, s.Block())
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	s.Release()
}

func TestReviveNilBlock(t *testing.T) {
	_, err := Revive(&testObj{}, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestReviveLiveBlock(t *testing.T) {
	s := New(&testObj{Value: 1})
	_, err := Revive(&testObj{Value: 2}, s.Block())
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, uint32(1), s.Block().StrongCount())
	assert.Equal(t, 1, s.Get().Value)
	s.Release()
}

func TestReviveTornDownBlock(t *testing.T) {
	s := New(&testObj{})
	blk := s.Block()
	s.Release()

	_, err := Revive(&testObj{}, blk)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestReviveTwice(t *testing.T) {
	s := New(&testObj{Value: 1})
	w := s.Weak()
	s.Release()

	first, err := Revive(&testObj{Value: 2}, w.Block())
	require.NoError(t, err)

	// The slot is live again; a second revival must be rejected.
	_, err = Revive(&testObj{Value: 3}, w.Block())
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	first.Release()
	w.Release()
}
