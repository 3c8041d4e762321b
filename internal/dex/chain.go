// Package dex holds the domain model for evolution chains and the tree
// queries the skill layer asks of them: where a species sits in its chain,
// what it evolves from and into, and which final stages its line reaches.
//
// Chains are small by domain construction (shallow depth, a handful of
// branches), so the queries are plain recursive traversals; no indexing is
// warranted. Every operation treats the tree as an immutable snapshot and
// is safe to call concurrently.
package dex

// Node is one species' position in an evolution tree. Children are kept in
// upstream declaration order. Conditions is empty on the tree root and
// otherwise describes the triggers under which the parent species becomes
// this one.
type Node struct {
	Species    string
	Conditions []Condition
	EvolvesTo  []*Node
}

// Condition is one evolution trigger plus its qualifiers. Zero-valued
// qualifiers are absent; pointer-free because a zero level/threshold never
// occurs upstream.
type Condition struct {
	Trigger       string
	MinLevel      int
	MinHappiness  int
	MinAffection  int
	MinBeauty     int
	Item          string
	HeldItem      string
	KnownMoveType string
	Location      string
	TradeSpecies  string
	TimeOfDay     string
	Gender        Gender
	NeedsRain     bool
}

// Gender restricts an evolution to one gender.
type Gender int

const (
	GenderAny Gender = iota
	GenderFemale
	GenderMale
)

// Locate finds the node for species and its parent by pre-order search.
//
// ok is false when species does not occur in the tree; that is a normal
// outcome (asking about a species from another family), not an error.
// parent is nil when species is the tree root. The search stops at the
// first hit; callers guarantee species ids are unique within one tree, so
// first found is only found.
func Locate(root *Node, species string) (parent, node *Node, ok bool) {
	if root == nil {
		return nil, nil, false
	}
	if root.Species == species {
		return nil, root, true
	}
	return locateBelow(root, species)
}

// locateBelow searches the subtree under current for species, returning the
// child and its parent as soon as either a direct child matches or a
// recursive call reports a hit.
func locateBelow(current *Node, species string) (parent, node *Node, ok bool) {
	for _, child := range current.EvolvesTo {
		if child.Species == species {
			return current, child, true
		}
		if p, n, found := locateBelow(child, species); found {
			return p, n, true
		}
	}
	return nil, nil, false
}

// FinalStages returns every leaf reachable from node in declaration order.
// A leaf node is its own sole final stage, so the result is non-empty for
// any non-nil node and contains each leaf exactly once.
func FinalStages(node *Node) []*Node {
	if node == nil {
		return nil
	}
	if len(node.EvolvesTo) == 0 {
		return []*Node{node}
	}
	var leaves []*Node
	for _, child := range node.EvolvesTo {
		leaves = append(leaves, FinalStages(child)...)
	}
	return leaves
}

// NextStages returns the immediate evolutions of species within the tree
// rooted at root. The list is empty when the species is a terminal stage or
// absent from the tree.
func NextStages(root *Node, species string) []*Node {
	_, node, ok := Locate(root, species)
	if !ok {
		return nil
	}
	return node.EvolvesTo
}

// PreviousStage returns the species' predecessor in the tree rooted at
// root. ok is false when species is the tree root or absent.
func PreviousStage(root *Node, species string) (*Node, bool) {
	parent, _, ok := Locate(root, species)
	if !ok || parent == nil {
		return nil, false
	}
	return parent, true
}
