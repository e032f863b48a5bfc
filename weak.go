package refkit

// Weak observes an object's liveness without extending it. The zero
// value is the empty reference. Like Strong, a weak unit is given back
// explicitly with Release.
type Weak[T any] struct {
	blk *Block
}

// Clone attaches one more weak unit to the same block.
func (w Weak[T]) Clone() Weak[T] {
	if w.blk != nil {
		w.blk.acquireWeak()
	}
	return w
}

// Release gives back this reference's weak unit and empties the
// reference. If the strong side is already drained, the block is torn
// down and the holder, if any, is notified. Releasing an empty reference
// is a no-op.
func (w *Weak[T]) Release() {
	if w.blk == nil {
		return
	}
	blk := w.blk
	w.blk = nil
	blk.releaseWeak()
}

// Assign replaces this reference with a copy of other, acquiring the new
// block before releasing the old one.
func (w *Weak[T]) Assign(other Weak[T]) {
	if w.blk == other.blk {
		return
	}
	old := w.blk
	if other.blk != nil {
		other.blk.acquireWeak()
	}
	w.blk = other.blk
	if old != nil {
		old.releaseWeak()
	}
}

// Expired reports whether there is currently no live object behind this
// reference.
func (w Weak[T]) Expired() bool { return w.blk == nil || w.blk.obj == nil }

// Lock upgrades to a strong reference. An expired weak yields the empty
// reference; otherwise the object gains exactly one strong unit and the
// weak side is untouched.
func (w Weak[T]) Lock() Strong[T] {
	if w.blk == nil || w.blk.obj == nil {
		return Strong[T]{}
	}
	v, ok := w.blk.obj.(T)
	if !ok {
		return Strong[T]{}
	}
	w.blk.acquireStrong()
	return Strong[T]{v: v, blk: w.blk}
}

// IsNil reports whether the reference is empty, i.e. attached to no
// block at all. An expired reference with a surviving block is not nil.
func (w Weak[T]) IsNil() bool { return w.blk == nil }

// Block exposes the underlying control block; nil for the empty
// reference. The block handle stays valid for revival as long as the
// weak unit is held.
func (w Weak[T]) Block() *Block { return w.blk }

// ID returns the control-block identity, or zero for the empty
// reference.
func (w Weak[T]) ID() BlockID {
	if w.blk == nil {
		return 0
	}
	return w.blk.id
}
