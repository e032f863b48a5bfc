// Package refkit implements a reference-counted ownership primitive: a
// strong/weak reference pair over a shared control block, a pluggable
// holder hook observing the first registration and the final release of
// an object's identity, and revival of dead blocks so that existing weak
// observers resume observing a fresh object without re-indexing.
//
// The package is deliberately single-threaded: counters are plain
// integers and every release runs its full protocol synchronously before
// returning. Callers that share references across goroutines must bring
// their own mutual exclusion.
package refkit
