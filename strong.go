package refkit

import "github.com/pkg/errors"

// Destroyer is implemented by managed objects that need an explicit
// destruction step. Destroy runs exactly once, synchronously, at the
// moment the last strong reference lets go.
type Destroyer interface {
	Destroy()
}

// Strong shares ownership of one object with every other strong
// reference attached to the same control block. The zero value is the
// empty reference.
//
// Go has no destructors, so a strong unit is given back explicitly with
// Release; a Strong that is never released keeps its object alive for
// good.
type Strong[T any] struct {
	v   T
	blk *Block
}

// New wraps a freshly constructed object into a new control block
// carrying a single strong unit. A nil pointer yields the empty
// reference; no block is allocated.
func New[T any](p *T) Strong[*T] {
	if p == nil {
		return Strong[*T]{}
	}
	s := Strong[*T]{v: p, blk: newBlock(p, dropThunk(p))}
	bindSelfRef(s)
	return s
}

// Revive installs a freshly constructed object into a dead control block
// and returns a strong reference owning it. Every weak observer of the
// block resumes observing the new object without re-indexing, and the
// block keeps its identity and its holder. The replacement must satisfy
// the view types of the outstanding observers.
func Revive[T any](p *T, blk *Block) (Strong[*T], error) {
	switch {
	case p == nil:
		return Strong[*T]{}, errors.Wrap(ErrInvalidArgument, "revive: nil object")
	case blk == nil:
		return Strong[*T]{}, errors.Wrap(ErrInvalidArgument, "revive: nil block")
	case blk.tearingDown:
		return Strong[*T]{}, errors.Wrap(ErrInvalidArgument, "revive: block already destroyed")
	case blk.obj != nil:
		return Strong[*T]{}, errors.Wrap(ErrInvalidArgument, "revive: block still holds a live object")
	case blk.strong != 0:
		return Strong[*T]{}, errors.Wrap(ErrInvalidArgument, "revive: block still strongly referenced")
	}
	blk.obj = p
	blk.drop = dropThunk(p)
	blk.strong = 1
	s := Strong[*T]{v: p, blk: blk}
	bindSelfRef(s)
	return s, nil
}

// dropThunk captures the typed destruction routine for p while the block
// itself stays type-erased.
func dropThunk[T any](p *T) func() {
	return func() {
		if d, ok := any(p).(Destroyer); ok {
			d.Destroy()
		}
		if r, ok := any(p).(selfReleaser); ok {
			r.releaseSelf()
		}
	}
}

func bindSelfRef[T any](s Strong[*T]) {
	if b, ok := any(s.v).(selfBinder[T]); ok {
		b.bindSelf(s.Weak())
	}
}

// Clone attaches one more strong unit to the same block.
func (s Strong[T]) Clone() Strong[T] {
	if s.blk != nil {
		s.blk.acquireStrong()
	}
	return s
}

// Release gives back this reference's strong unit and empties the
// reference. On the last strong unit the managed object is destroyed
// right here; if no weak observer remains either, the block is torn down
// and the holder, if any, is notified. Releasing an empty reference is a
// no-op.
func (s *Strong[T]) Release() {
	if s.blk == nil {
		return
	}
	blk := s.blk
	s.blk = nil
	var zero T
	s.v = zero
	blk.releaseStrong()
}

// Assign replaces this reference with a copy of other. Assigning a
// reference to itself is a no-op. The new block is acquired before the
// old one is released, so reassignment never lets a transient strong
// count hit zero even when other aliases a block this reference is about
// to let go of.
func (s *Strong[T]) Assign(other Strong[T]) {
	if s.blk == other.blk {
		s.v = other.v
		return
	}
	old := s.blk
	if other.blk != nil {
		other.blk.acquireStrong()
	}
	s.v = other.v
	s.blk = other.blk
	if old != nil {
		old.releaseStrong()
	}
}

// Get returns the cached object view; the zero value for the empty
// reference. Callers check IsNil first.
func (s Strong[T]) Get() T { return s.v }

// IsNil reports whether the reference is empty.
func (s Strong[T]) IsNil() bool { return s.blk == nil }

// Block exposes the underlying control block, mainly for holder indexes
// and revival. Nil for the empty reference.
func (s Strong[T]) Block() *Block { return s.blk }

// ID returns the control-block identity, or zero for the empty
// reference.
func (s Strong[T]) ID() BlockID {
	if s.blk == nil {
		return 0
	}
	return s.blk.id
}

// Weak derives a weak observer of the same block.
func (s Strong[T]) Weak() Weak[T] {
	if s.blk == nil {
		return Weak[T]{}
	}
	s.blk.acquireWeak()
	return Weak[T]{blk: s.blk}
}

// SetHolder attaches h to the reference's block and notifies it
// synchronously, exactly once, with a borrowed view of this reference;
// holders clone what they keep. A nil h detaches the current holder
// without notification. At most one holder is attached at a time; a
// later SetHolder replaces the earlier handle.
func (s Strong[T]) SetHolder(h Holder[T]) error {
	if s.blk == nil {
		return errors.Wrap(ErrInvalidOperation, "set holder")
	}
	if h == nil {
		s.blk.setHolder(nil, nil)
		return nil
	}
	s.blk.setHolder(h, h.UnholdRef)
	h.HoldRef(s)
	return nil
}
