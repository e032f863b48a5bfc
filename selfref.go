package refkit

import "github.com/pkg/errors"

// SelfRef gives a type an owned weak handle to its own control block.
// Embed it by value; the first strong reference constructed over the
// object, by New or by Revive, binds it automatically:
//
//	type Session struct {
//		refkit.SelfRef[Session]
//		...
//	}
//
// The internal weak unit counts toward the block's weak count and is
// given back by the object-destruction path.
type SelfRef[T any] struct {
	self Weak[*T]
}

type selfBinder[T any] interface{ bindSelf(Weak[*T]) }

type selfReleaser interface{ releaseSelf() }

func (s *SelfRef[T]) bindSelf(w Weak[*T]) { s.self = w }

func (s *SelfRef[T]) releaseSelf() { s.self.Release() }

// StrongFromSelf materializes a strong reference to the object itself.
// It fails when the object is not currently owned by any strong
// reference: never wrapped, or already fully released.
func (s *SelfRef[T]) StrongFromSelf() (Strong[*T], error) {
	locked := s.self.Lock()
	if locked.IsNil() {
		return Strong[*T]{}, errors.Wrap(ErrLogicError, "strong from self")
	}
	return locked, nil
}

// WeakFromSelf returns a weak clone of the self handle. It never fails;
// the result may already be expired, and is empty when the object was
// never wrapped.
func (s *SelfRef[T]) WeakFromSelf() Weak[*T] { return s.self.Clone() }
