package refkit

// Holder is the integration contract for collaborators that index
// objects by block identity: deduplication tables, registries, graphs.
// The two hooks are the entirety of the surface; holders never reach
// into the control block themselves.
//
// HoldRef fires synchronously inside SetHolder, once per registration,
// with a borrowed reference: a holder that keeps the object must Clone
// or Weak it. A holder must tolerate being registered twice for the same
// block without corrupting its index.
//
// UnholdRef fires synchronously exactly once per block lifetime, at the
// instant both counts reach zero, carrying the identity of the dying
// block. The object is already gone by then; the identity is only good
// for removing the index entry. The callback must not revive or
// re-register the block it is being notified about.
type Holder[T any] interface {
	HoldRef(ref Strong[T])
	UnholdRef(id BlockID)
}

// NopHolder is the zero-sized stand-in for code paths that are generic
// over a holder but never track anything.
type NopHolder[T any] struct{}

func (NopHolder[T]) HoldRef(Strong[T]) {}
func (NopHolder[T]) UnholdRef(BlockID) {}
