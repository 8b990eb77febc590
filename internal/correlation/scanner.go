package correlation

import (
	"sort"

	"polymarket-hft-core/pkg/price"
)

// ViolationType names the detection rule that produced a Violation.
type ViolationType int

const (
	Monotonicity ViolationType = iota
	Subset
	Exclusivity
)

func (t ViolationType) String() string {
	switch t {
	case Monotonicity:
		return "Monotonicity"
	case Subset:
		return "Subset"
	case Exclusivity:
		return "Exclusivity"
	default:
		return "Unknown"
	}
}

// Violation is a detected pricing inconsistency (spec.md §4.4). For
// Monotonicity/Subset, Parent/Child are the edge's own endpoints. For
// Exclusivity, Parent/Child are repurposed to hold the two highest-priced
// siblings in a violating set (spec.md §4.4 "record the two highest-priced
// siblings as the principal legs") — the same two fields DutchBook reads
// regardless of violation type, since spec.md never branches dutch-book
// construction by type.
type Violation struct {
	Type             ViolationType
	Parent           string
	Child            string
	ParentPrice      price.Price
	ChildPrice       price.Price
	ExpectedRelation string
	EdgeBps          int64
}

// DutchBook is an offsetting long/short pair derived from a Violation.
type DutchBook struct {
	LongMarket         string
	LongTokenID        string
	ShortMarket        string
	ShortTokenID       string
	ExpectedProfitBps int64
}

// Scan walks the graph's edges and sibling sets and returns every
// violation whose magnitude is at least minEdgeBps. Scan order is fixed:
// edges in insertion order (Implies/Contains), then nodes in insertion
// order (sibling sets), matching spec.md §4.4 Ordering so repeated scans
// of a frozen graph are bit-for-bit identical.
func (g *Graph) Scan(minEdgeBps int64) []Violation {
	var out []Violation

	for _, e := range g.edges {
		if e.Relation != Implies && e.Relation != Contains {
			continue
		}
		v, ok := g.scanEdge(e)
		if ok {
			out = append(out, v)
		}
	}

	for _, v := range g.scanSiblingSets() {
		out = append(out, v)
	}

	filtered := out[:0]
	for _, v := range out {
		if v.EdgeBps >= minEdgeBps {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// scanEdge applies the Monotonicity/Subset rule to a single Implies or
// Contains edge: a violation fires when the child is priced higher than
// parent_price * weight (the "child over-priced" framing spec.md §8
// scenario 1 pins). Edge magnitude is ((child - parent) / parent) * 10000
// bps, per spec.md §4.4 — computed against the parent's own price, not the
// weighted expectation.
func (g *Graph) scanEdge(e Edge) (Violation, bool) {
	parent, ok := g.nodes[e.ParentID]
	if !ok || !parent.HasPrice {
		return Violation{}, false
	}
	child, ok := g.nodes[e.ChildID]
	if !ok || !child.HasPrice {
		return Violation{}, false
	}

	expectedMax := parent.CurrentPrice.Mul(e.Weight)
	if !child.CurrentPrice.GreaterThan(expectedMax) {
		return Violation{}, false
	}
	if parent.CurrentPrice.IsZero() {
		return Violation{}, false
	}

	diff := child.CurrentPrice.Sub(parent.CurrentPrice)
	edgeBps := diff.BpsOf(parent.CurrentPrice)

	vtype := Monotonicity
	if e.Relation == Contains {
		vtype = Subset
	}

	return Violation{
		Type:             vtype,
		Parent:           e.ParentID,
		Child:            e.ChildID,
		ParentPrice:      parent.CurrentPrice,
		ChildPrice:       child.CurrentPrice,
		ExpectedRelation: "P(Child) <= P(Parent)",
		EdgeBps:          edgeBps,
	}, true
}

// scanSiblingSets finds groups of mutually-exclusive outcomes — either
// children sharing a common Implies/Contains parent, or nodes joined by an
// explicit Exclusive edge — and emits an Exclusivity violation when the
// set's prices sum to more than 1 (spec.md §4.4 rule 3).
func (g *Graph) scanSiblingSets() []Violation {
	var out []Violation

	for _, set := range g.siblingSets() {
		v, ok := g.scanSiblingSet(set)
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// siblingSets returns every sibling grouping in deterministic order:
// common-parent groups first (in the insertion order of the parent
// node), then explicit-Exclusive connected components (in the insertion
// order of their first member).
func (g *Graph) siblingSets() [][]string {
	var sets [][]string

	childrenByParent := make(map[string][]string)
	for _, e := range g.edges {
		if e.Relation != Implies && e.Relation != Contains {
			continue
		}
		children := childrenByParent[e.ParentID]
		if !containsStr(children, e.ChildID) {
			childrenByParent[e.ParentID] = append(children, e.ChildID)
		}
	}
	for _, marketID := range g.nodeOrder {
		if children, ok := childrenByParent[marketID]; ok && len(children) >= 2 {
			sets = append(sets, children)
		}
	}

	sets = append(sets, g.exclusiveComponents()...)
	return sets
}

// exclusiveComponents groups nodes connected by Exclusive edges into
// connected components via union-find, returned in the insertion order
// of each component's earliest member.
func (g *Graph) exclusiveComponents() [][]string {
	parent := make(map[string]string)
	find := func(x string) string {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}
	var union func(a, b string)
	union = func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	ensure := func(id string) {
		if _, ok := parent[id]; !ok {
			parent[id] = id
		}
	}

	for _, e := range g.edges {
		if e.Relation != Exclusive {
			continue
		}
		ensure(e.ParentID)
		ensure(e.ChildID)
		union(e.ParentID, e.ChildID)
	}

	groups := make(map[string][]string)
	var rootOrder []string
	for _, marketID := range g.nodeOrder {
		if _, ok := parent[marketID]; !ok {
			continue
		}
		root := find(marketID)
		if _, seen := groups[root]; !seen {
			rootOrder = append(rootOrder, root)
		}
		groups[root] = append(groups[root], marketID)
	}

	var out [][]string
	for _, root := range rootOrder {
		if len(groups[root]) >= 2 {
			out = append(out, groups[root])
		}
	}
	return out
}

// scanSiblingSet checks one sibling set against the unity rule and, if
// violated, reports the two highest-priced members as principal legs.
func (g *Graph) scanSiblingSet(marketIDs []string) (Violation, bool) {
	type priced struct {
		marketID string
		price    price.Price
	}
	var members []priced
	for _, id := range marketIDs {
		n, ok := g.nodes[id]
		if !ok || !n.HasPrice {
			return Violation{}, false
		}
		members = append(members, priced{marketID: id, price: n.CurrentPrice})
	}
	if len(members) < 2 {
		return Violation{}, false
	}

	sum := price.Zero
	for _, m := range members {
		sum = sum.Add(m.price)
	}
	if !sum.GreaterThan(price.One) {
		return Violation{}, false
	}

	sort.SliceStable(members, func(i, j int) bool { return members[i].price.GreaterThan(members[j].price) })
	top, second := members[0], members[1]

	edgeBps := sum.Sub(price.One).BpsOf(price.One)

	return Violation{
		Type:             Exclusivity,
		Parent:           top.marketID,
		Child:            second.marketID,
		ParentPrice:      top.price,
		ChildPrice:       second.price,
		ExpectedRelation: "sum(siblings) <= 1",
		EdgeBps:          edgeBps,
	}, true
}

func containsStr(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}

// BuildDutchBook looks up the two reported markets' token ids and emits an
// offsetting long/short pair: long the Parent-field market, short the
// Child-field market, with expected profit equal to the violation's edge
// magnitude (spec.md §4.4 Dutch-book generation).
func (g *Graph) BuildDutchBook(v Violation) (DutchBook, bool) {
	longNode, ok := g.nodes[v.Parent]
	if !ok {
		return DutchBook{}, false
	}
	shortNode, ok := g.nodes[v.Child]
	if !ok {
		return DutchBook{}, false
	}
	return DutchBook{
		LongMarket:        longNode.MarketID,
		LongTokenID:       longNode.TokenID,
		ShortMarket:       shortNode.MarketID,
		ShortTokenID:      shortNode.TokenID,
		ExpectedProfitBps: v.EdgeBps,
	}, true
}
