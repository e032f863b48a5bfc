package refkit

import "sync/atomic"

// BlockID is the stable identity of a control block. It is assigned when
// the block is allocated, survives object death and revival, and is
// usable as a map key in holder indexes.
type BlockID uint64

var blockIDSeq uint64

func allocBlockID() BlockID {
	return BlockID(atomic.AddUint64(&blockIDSeq, 1))
}

// Block is the control record shared by every reference attached to one
// logical object slot: the type-erased object, the strong and weak units
// currently attached, and the optional holder hook.
//
// The counters are plain integers; see the package doc for the threading
// contract.
type Block struct {
	id   BlockID
	obj  any
	drop func() // destruction thunk captured at New or Revive time

	strong uint32
	weak   uint32

	holder      any
	unhold      func(BlockID)
	tearingDown bool
}

func newBlock(obj any, drop func()) *Block {
	return &Block{id: allocBlockID(), obj: obj, drop: drop, strong: 1}
}

func (b *Block) ID() BlockID { return b.id }

// Alive reports whether the object slot currently holds a live object.
func (b *Block) Alive() bool { return b != nil && b.obj != nil }

// Referenced reports whether any strong or weak unit is still attached.
func (b *Block) Referenced() bool { return b.strong != 0 || b.weak != 0 }

func (b *Block) StrongCount() uint32 { return b.strong }
func (b *Block) WeakCount() uint32   { return b.weak }

func (b *Block) acquireStrong() { b.strong++ }
func (b *Block) acquireWeak()   { b.weak++ }

// releaseStrong gives back one strong unit. The 1->0 transition destroys
// the managed object immediately; the block itself goes down only once
// the weak side is drained too.
func (b *Block) releaseStrong() {
	b.strong--
	if b.strong != 0 {
		return
	}
	b.destroyObject()
	if b.weak == 0 {
		b.teardown()
	}
}

func (b *Block) releaseWeak() {
	b.weak--
	if b.weak == 0 && b.strong == 0 {
		b.teardown()
	}
}

// destroyObject clears the object slot, then runs the captured thunk. The
// slot is cleared first so that anything observing the block from inside
// the thunk sees an expired block, not a stale object.
func (b *Block) destroyObject() {
	drop := b.drop
	b.obj = nil
	b.drop = nil
	if drop != nil {
		drop()
	}
}

// teardown is the terminal, one-shot event of a block's life. The holder
// handle is cleared before the notification goes out, so a holder cannot
// re-register the block it is being told to forget.
func (b *Block) teardown() {
	if b.tearingDown {
		return
	}
	b.tearingDown = true
	if b.unhold != nil {
		unhold := b.unhold
		b.holder = nil
		b.unhold = nil
		unhold(b.id)
	}
}

func (b *Block) setHolder(holder any, unhold func(BlockID)) {
	b.holder = holder
	b.unhold = unhold
}
