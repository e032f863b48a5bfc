package refkit

// alias is the single aliasing constructor: it attaches one more strong
// unit to blk while presenting a different statically-typed view of the
// same object. Callers guarantee that v actually views blk's object.
func alias[U any](blk *Block, v U) Strong[U] {
	blk.acquireStrong()
	return Strong[U]{v: v, blk: blk}
}

// Cast reinterprets a strong reference under view type U, sharing the
// control block and adding one strong unit. An empty source yields an
// empty result. Cast panics when the object does not satisfy U; use
// TryCast when the view is not guaranteed.
func Cast[U any, T any](s Strong[T]) Strong[U] {
	if s.blk == nil {
		return Strong[U]{}
	}
	return alias(s.blk, s.blk.obj.(U))
}

// TryCast is the checked variant of Cast: a view the object cannot
// satisfy yields the empty reference and leaves the source reference's
// counts untouched. The mismatch is a designed outcome, not an error.
func TryCast[U any, T any](s Strong[T]) Strong[U] {
	if s.blk == nil {
		return Strong[U]{}
	}
	v, ok := s.blk.obj.(U)
	if !ok {
		return Strong[U]{}
	}
	return alias(s.blk, v)
}

// Same reports whether two strong references, possibly under different
// views, share one control block.
func Same[T any, U any](a Strong[T], b Strong[U]) bool {
	return a.blk != nil && a.blk == b.blk
}
