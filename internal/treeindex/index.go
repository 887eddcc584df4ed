// Package treeindex builds read-only lookups over BOM tree snapshots.
package treeindex

import (
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// Index is an immutable lookup over one BOM tree. It implements core.TreeIndex.
type Index struct {
	roots  []core.TreeNode
	nodes  map[string]*core.TreeNode
	parent map[string]string
	owners map[string]string
}

var _ core.TreeIndex = (*Index)(nil)

// New builds an index over a copy of roots. Levels are recomputed from depth.
// When an id appears twice the first occurrence wins.
func New(roots []core.TreeNode) *Index {
	idx := &Index{
		roots:  cloneNodes(roots),
		nodes:  make(map[string]*core.TreeNode),
		parent: make(map[string]string),
		owners: make(map[string]string),
	}
	for i := range idx.roots {
		idx.add(&idx.roots[i], "", 0)
	}
	return idx
}

// Empty returns an index with no nodes.
func Empty() *Index {
	return New(nil)
}

func (idx *Index) add(n *core.TreeNode, parentID string, level int) {
	n.Level = level
	if _, dup := idx.nodes[n.ID]; !dup {
		idx.nodes[n.ID] = n
		if parentID != "" {
			idx.parent[n.ID] = parentID
		}
	}
	for _, req := range n.Requirements {
		if _, ok := idx.owners[req]; !ok {
			idx.owners[req] = n.ID
		}
	}
	for i := range n.Children {
		idx.add(&n.Children[i], n.ID, level+1)
	}
}

// Roots returns the top-level nodes.
func (idx *Index) Roots() []core.TreeNode {
	return idx.roots
}

// Node returns the node with the given id.
func (idx *Index) Node(id string) (*core.TreeNode, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// PathTo returns root-to-node ids, including id itself.
func (idx *Index) PathTo(id string) ([]string, bool) {
	if _, ok := idx.nodes[id]; !ok {
		return nil, false
	}
	var path []string
	for cur := id; cur != ""; cur = idx.parent[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// Ancestors returns the path to id without id itself.
func (idx *Index) Ancestors(id string) ([]string, bool) {
	path, ok := idx.PathTo(id)
	if !ok {
		return nil, false
	}
	return path[:len(path)-1], true
}

// OwnerOf returns the node that owns a requirement identifier. A node whose
// id equals the identifier owns it.
func (idx *Index) OwnerOf(requirementID string) (string, bool) {
	if _, ok := idx.nodes[requirementID]; ok {
		return requirementID, true
	}
	id, ok := idx.owners[requirementID]
	return id, ok
}

// Len returns the number of distinct node ids.
func (idx *Index) Len() int {
	return len(idx.nodes)
}

func cloneNodes(nodes []core.TreeNode) []core.TreeNode {
	if nodes == nil {
		return nil
	}
	out := make([]core.TreeNode, len(nodes))
	for i, n := range nodes {
		out[i] = n
		out[i].Tags = append([]string(nil), n.Tags...)
		out[i].Requirements = append([]string(nil), n.Requirements...)
		out[i].Children = cloneNodes(n.Children)
	}
	return out
}
