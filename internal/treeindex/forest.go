package treeindex

import "github.com/leapstack-labs/bomscope/pkg/core"

// Forest holds one index per BOM type. It implements core.TreeSource.
type Forest struct {
	trees map[core.BomType]*Index
}

var _ core.TreeSource = (*Forest)(nil)

// NewForest indexes every tree in trees.
func NewForest(trees map[core.BomType][]core.TreeNode) *Forest {
	f := &Forest{trees: make(map[core.BomType]*Index, len(trees))}
	for bt, roots := range trees {
		f.trees[bt] = New(roots)
	}
	return f
}

// Index returns the index for a BOM type, or an empty index if the type has
// no tree.
func (f *Forest) Index(bomType core.BomType) core.TreeIndex {
	return f.Tree(bomType)
}

// Tree is Index with the concrete type.
func (f *Forest) Tree(bomType core.BomType) *Index {
	if f == nil {
		return Empty()
	}
	if idx, ok := f.trees[bomType]; ok {
		return idx
	}
	return Empty()
}

// VisibleNode is a node in a flattened, expansion-aware rendering of a tree.
type VisibleNode struct {
	Node     *core.TreeNode
	Expanded bool
	Selected bool
}

// Flatten lists the nodes a tree view shows: roots, plus the children of
// every expanded node, depth first.
func Flatten(idx core.TreeIndex, expanded []string, selected string) []VisibleNode {
	open := make(map[string]bool, len(expanded))
	for _, id := range expanded {
		open[id] = true
	}

	var out []VisibleNode
	var walk func(nodes []core.TreeNode)
	walk = func(nodes []core.TreeNode) {
		for i := range nodes {
			n := &nodes[i]
			out = append(out, VisibleNode{Node: n, Expanded: open[n.ID], Selected: n.ID == selected})
			if open[n.ID] {
				walk(n.Children)
			}
		}
	}
	walk(idx.Roots())
	return out
}
