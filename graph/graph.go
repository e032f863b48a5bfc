// Package graph tracks a set of live, linkable nodes through the refkit
// holder hook. The space never owns its nodes: entries appear when a
// node is registered and vanish on their own when the node's last
// reference dies.
package graph

import (
	"github.com/go-logr/logr"

	"github.com/refkit/refkit"
)

// Node is one vertex. Nodes are handed out as strong references and can
// mint references to themselves while owned.
type Node struct {
	refkit.SelfRef[Node]
	ID    int
	Value int
}

// Space is an index-only refkit holder: it keys node metadata and edges
// by block identity and keeps no references of its own.
type Space struct {
	log   logr.Logger
	seq   int
	nodes map[refkit.BlockID]int
	edges map[refkit.BlockID][]refkit.BlockID
}

var _ = refkit.Holder[*Node](&Space{})

func NewSpace(log logr.Logger) *Space {
	return &Space{
		log:   log,
		nodes: make(map[refkit.BlockID]int),
		edges: make(map[refkit.BlockID][]refkit.BlockID),
	}
}

// NewNode allocates a node, registers this space as its holder and hands
// ownership to the caller.
func (g *Space) NewNode(value int) (refkit.Strong[*Node], error) {
	n := &Node{ID: g.seq, Value: value}
	g.seq++
	ref := refkit.New(n)
	if err := ref.SetHolder(g); err != nil {
		ref.Release()
		return refkit.Strong[*Node]{}, err
	}
	return ref, nil
}

// HoldRef indexes a node by block identity. Re-registration of an
// already-indexed block changes nothing.
func (g *Space) HoldRef(ref refkit.Strong[*Node]) {
	id := ref.ID()
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = ref.Get().ID
	g.log.V(1).Info("node held", "block", id, "node", ref.Get().ID)
}

// UnholdRef drops a dead node and every edge touching it.
func (g *Space) UnholdRef(id refkit.BlockID) {
	nodeID, ok := g.nodes[id]
	if !ok {
		return
	}
	delete(g.nodes, id)
	delete(g.edges, id)
	for from, to := range g.edges {
		g.edges[from] = dropID(to, id)
	}
	g.log.V(1).Info("node released", "block", id, "node", nodeID)
}

// Link records a directed edge between two live nodes.
func (g *Space) Link(from, to refkit.Strong[*Node]) {
	if from.IsNil() || to.IsNil() {
		return
	}
	g.edges[from.ID()] = append(g.edges[from.ID()], to.ID())
}

// Degree returns the number of outgoing edges of a node.
func (g *Space) Degree(n refkit.Strong[*Node]) int {
	return len(g.edges[n.ID()])
}

// Len returns the number of currently live nodes.
func (g *Space) Len() int { return len(g.nodes) }

// Contains reports whether the block identity belongs to a live node.
func (g *Space) Contains(id refkit.BlockID) bool {
	_, ok := g.nodes[id]
	return ok
}

func dropID(ids []refkit.BlockID, id refkit.BlockID) []refkit.BlockID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
