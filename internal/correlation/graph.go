// Package correlation implements the directed correlation graph and the
// monotonicity/subset/exclusivity violation scanner built on top of it
// (spec.md §3, §4.4). Grounded primarily on
// _examples/original_source/rust_core/src/graph 2.rs's
// MarketNode/MarketEdge/CorrelationViolation/ViolationType shape, whose
// check_edge already fires on "child over-priced" (cp > pp) — the
// framing spec.md §8 scenario 1 pins. The sibling
// _examples/original_source/rust_core/src/graph.rs variant contributed
// the insertion-ordered HashMap-of-nodes/edges scan-order guarantee,
// generalized here from its single "monotonicity" relation to the three
// relation kinds spec.md requires (see DESIGN.md Open Questions).
package correlation

import (
	"polymarket-hft-core/pkg/price"
)

// Relation is the kind of logical relationship an edge asserts between
// its parent and child node.
type Relation int

const (
	// Implies means "parent happening implies child happening" — a
	// fires-if relation. Weight 1.0 is a perfect implication.
	Implies Relation = iota
	// Contains means the parent market subsumes the child (same numeric
	// rule as Implies; only the reported label differs).
	Contains
	// Exclusive marks an explicit mutual-exclusivity edge between two
	// sibling outcomes, independent of any common-parent grouping.
	Exclusive
)

func (r Relation) String() string {
	switch r {
	case Implies:
		return "Implies"
	case Contains:
		return "Contains"
	case Exclusive:
		return "Exclusive"
	default:
		return "Unknown"
	}
}

// Node is a market/outcome vertex in the correlation graph.
type Node struct {
	MarketID     string
	TokenID      string
	Description  string
	CurrentPrice price.Price
	HasPrice     bool
}

// Edge is a directed relation from a parent node to a child node.
type Edge struct {
	ParentID string
	ChildID  string
	Relation Relation
	Weight   price.Price // in [0, 1]; 1.0 == perfect implication
}

// Graph is a directed graph of markets linked by logical relations.
// Edge and node iteration preserve insertion order, required for
// reproducible scans (spec.md §3, §4.4 Ordering). Acyclic is a
// convention only: it is never enforced or checked, and the scanner does
// not recurse, so a cycle does not change how it runs.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	edges     []Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode registers a market node. Calling it again for the same
// marketID updates the description/token but preserves original
// insertion position.
func (g *Graph) AddNode(marketID, tokenID, description string) {
	if existing, ok := g.nodes[marketID]; ok {
		existing.TokenID = tokenID
		existing.Description = description
		return
	}
	g.nodes[marketID] = &Node{MarketID: marketID, TokenID: tokenID, Description: description}
	g.nodeOrder = append(g.nodeOrder, marketID)
}

// SetPrice records the current price for a market. No-op if the market
// was never added via AddNode.
func (g *Graph) SetPrice(marketID string, p price.Price) {
	if n, ok := g.nodes[marketID]; ok {
		n.CurrentPrice = p
		n.HasPrice = true
	}
}

// AddEdge adds a directed relation. Weight is clamped to [0, 1].
func (g *Graph) AddEdge(parentID, childID string, relation Relation, weight price.Price) {
	if weight.LessThan(price.Zero) {
		weight = price.Zero
	}
	if weight.GreaterThan(price.One) {
		weight = price.One
	}
	g.edges = append(g.edges, Edge{ParentID: parentID, ChildID: childID, Relation: relation, Weight: weight})
}

// Node returns the node for marketID, if present.
func (g *Graph) Node(marketID string) (*Node, bool) {
	n, ok := g.nodes[marketID]
	return n, ok
}

// NodeOrder returns market ids in insertion order.
func (g *Graph) NodeOrder() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Edges returns edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}
