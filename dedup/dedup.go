// Package dedup interns objects by 64-bit identity on top of refkit.
//
// The table keeps only weak references, so an entry whose owners are all
// gone stays behind as a dead slot: the control block survives, and a
// later Intern of the same identity revives the slot in place. Every
// outstanding weak observer of the old object snaps over to the new one
// without touching a single index.
package dedup

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/refkit/refkit"
)

// Keyed is implemented by interned types; Key returns the identity the
// table deduplicates on.
type Keyed interface {
	Key() uint64
}

// HashIDs folds a list of component identities into one 64-bit identity
// (FNV-1a), for entries whose identity derives from their parts.
func HashIDs(ids []uint64) uint64 {
	hash := uint64(14695981039346656037)
	const prime64 = uint64(1099511628211)
	for _, id := range ids {
		hash ^= id
		hash *= prime64
	}
	return hash
}

// Table is a deduplicating intern table and a weak-holding refkit
// holder.
type Table[T any] struct {
	log     logr.Logger
	weaks   map[uint64]refkit.Weak[*T]
	idByBlk map[refkit.BlockID]uint64
	revived int
	closed  bool
}

func NewTable[T any](log logr.Logger) *Table[T] {
	return &Table[T]{
		log:     log,
		weaks:   make(map[uint64]refkit.Weak[*T]),
		idByBlk: make(map[refkit.BlockID]uint64),
	}
}

// Intern returns the object registered under id, constructing it with
// newObject only when the identity is unseen or its slot is dead. The
// constructed object must report Key() == id. The caller owns the
// returned reference.
func (t *Table[T]) Intern(id uint64, newObject func() *T) (refkit.Strong[*T], error) {
	if t.closed {
		return refkit.Strong[*T]{}, errors.Wrap(refkit.ErrInvalidOperation, "intern on closed table")
	}

	if w, ok := t.weaks[id]; ok {
		if s := w.Lock(); !s.IsNil() {
			return s, nil
		}
		// Dead slot: same identity, fresh object, same block, and every
		// weak observer of the old object stays valid.
		s, err := refkit.Revive(newObject(), w.Block())
		if err != nil {
			return refkit.Strong[*T]{}, err
		}
		t.revived++
		t.log.V(1).Info("slot revived", "id", id, "block", s.ID())
		return s, nil
	}

	obj := newObject()
	if _, ok := any(obj).(Keyed); !ok {
		return refkit.Strong[*T]{}, errors.Wrap(refkit.ErrInvalidArgument, "interned type must implement Keyed")
	}
	s := refkit.New(obj)
	if err := s.SetHolder(t); err != nil {
		s.Release()
		return refkit.Strong[*T]{}, err
	}
	t.log.V(1).Info("slot created", "id", id, "block", s.ID())
	return s, nil
}

// Lookup returns the live object for id, or an empty reference when the
// identity is unknown or its slot is dead.
func (t *Table[T]) Lookup(id uint64) refkit.Strong[*T] {
	w, ok := t.weaks[id]
	if !ok {
		return refkit.Strong[*T]{}
	}
	return w.Lock()
}

// HoldRef indexes a freshly created entry under its own key. A block the
// table already holds is left alone.
func (t *Table[T]) HoldRef(ref refkit.Strong[*T]) {
	id := any(ref.Get()).(Keyed).Key()
	if _, ok := t.idByBlk[ref.ID()]; ok {
		return
	}
	t.weaks[id] = ref.Weak()
	t.idByBlk[ref.ID()] = id
}

// UnholdRef drops the index entries for a block that died behind the
// table's back. While the table holds a weak unit per entry this only
// fires for blocks already evicted, so there is normally nothing left to
// do.
func (t *Table[T]) UnholdRef(blk refkit.BlockID) {
	if id, ok := t.idByBlk[blk]; ok {
		delete(t.idByBlk, blk)
		delete(t.weaks, id)
	}
}

var _ = refkit.Holder[*struct{}](&Table[struct{}]{})

// Evict forgets id, releasing the table's weak hold. A dead slot goes
// down for good; a live one stays with its owners and merely loses its
// revivability.
func (t *Table[T]) Evict(id uint64) bool {
	w, ok := t.weaks[id]
	if !ok {
		return false
	}
	delete(t.weaks, id)
	delete(t.idByBlk, w.ID())
	w.Release()
	return true
}

// Len returns the number of indexed identities, dead slots included.
func (t *Table[T]) Len() int { return len(t.weaks) }

// Live returns the number of identities whose slot currently holds a
// live object.
func (t *Table[T]) Live() int {
	live := 0
	for _, w := range t.weaks {
		if !w.Expired() {
			live++
		}
	}
	return live
}

// Revived returns how many Intern calls were served by revival.
func (t *Table[T]) Revived() int { return t.revived }

// Close releases every weak hold and shuts the table. Interning on a
// closed table fails; outstanding strong references stay valid.
func (t *Table[T]) Close() error {
	if t.closed {
		return errors.Wrap(refkit.ErrInvalidOperation, "table already closed")
	}
	t.closed = true
	for id, w := range t.weaks {
		delete(t.weaks, id)
		delete(t.idByBlk, w.ID())
		w.Release()
	}
	return nil
}
