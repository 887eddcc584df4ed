// Package core defines the BOM domain types shared by every bomscope surface:
// BOM types, tabs, tree nodes, deep links and simulation catalog entries.
package core

import (
	"fmt"
	"slices"
	"strings"
)

// BomType identifies one of the parallel tree taxonomies over the product.
type BomType string

// BOM types.
const (
	BomRequirement BomType = "requirement"
	BomSolution    BomType = "solution"
	BomDesign      BomType = "design"
	BomSimulation  BomType = "simulation"
	BomTest        BomType = "test"
	BomPhysical    BomType = "physical"
)

// AllBomTypes returns every BOM type in display order.
func AllBomTypes() []BomType {
	return []BomType{BomRequirement, BomSolution, BomDesign, BomSimulation, BomTest, BomPhysical}
}

// Valid reports whether b is a known BOM type.
func (b BomType) Valid() bool {
	return slices.Contains(AllBomTypes(), b)
}

// ParseBomType converts a user supplied string into a BomType.
func ParseBomType(s string) (BomType, error) {
	b := BomType(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("unknown BOM type %q", s)
	}
	return b, nil
}

// Tab identifies a detail panel tab.
type Tab string

// Detail panel tabs.
const (
	TabOverview    Tab = "overview"
	TabRequirement Tab = "requirement"
	TabDesign      Tab = "design"
	TabSimulation  Tab = "simulation"
	TabTest        Tab = "test"
	TabPhysical    Tab = "physical"
)

// DefaultTab returns the tab a BOM type opens on.
func (b BomType) DefaultTab() Tab {
	switch b {
	case BomRequirement:
		return TabRequirement
	case BomDesign:
		return TabDesign
	case BomSimulation:
		return TabSimulation
	case BomTest:
		return TabTest
	case BomPhysical:
		return TabPhysical
	default:
		return TabOverview
	}
}

// Tabs returns the tabs available for a BOM type. The default tab is first.
func (b BomType) Tabs() []Tab {
	def := b.DefaultTab()
	tabs := []Tab{def}
	for _, t := range []Tab{TabOverview, TabRequirement} {
		if t != def {
			tabs = append(tabs, t)
		}
	}
	return tabs
}

// AllowsTab reports whether t can be shown for this BOM type.
func (b BomType) AllowsTab(t Tab) bool {
	return slices.Contains(b.Tabs(), t)
}

// TreeNode is a node of one BOM tree. Nodes are owned by their parent and
// never shared between trees.
type TreeNode struct {
	ID       string     `json:"id" yaml:"id" validate:"required"`
	Name     string     `json:"name" yaml:"name" validate:"required"`
	Level    int        `json:"level" yaml:"-"`
	Kind     string     `json:"kind,omitempty" yaml:"kind"`
	Tags     []string   `json:"tags,omitempty" yaml:"tags"`
	Children []TreeNode `json:"children,omitempty" yaml:"children" validate:"dive"`

	// Requirements lists linked requirement identifiers. On the requirement
	// tree these are the identifiers the node owns.
	Requirements []string `json:"requirements,omitempty" yaml:"requirements" validate:"dive,required"`
}

// HasChildren reports whether the node has any children.
func (n *TreeNode) HasChildren() bool {
	return len(n.Children) > 0
}

// TreeIndex is a read-only lookup over one BOM tree snapshot.
type TreeIndex interface {
	// Roots returns the top-level nodes in order.
	Roots() []TreeNode
	// Node returns the node with the given id.
	Node(id string) (*TreeNode, bool)
	// PathTo returns the ids from a root down to and including id.
	PathTo(id string) ([]string, bool)
	// OwnerOf returns the id of the node that owns a requirement identifier.
	OwnerOf(requirementID string) (string, bool)
}

// TreeSource hands out the index for whichever BOM tree is requested.
type TreeSource interface {
	Index(bomType BomType) TreeIndex
}

// TabPreferences remembers the last tab used per BOM type. Implementations
// are best-effort caches: failures are swallowed, never returned.
type TabPreferences interface {
	GetTab(bomType BomType) (Tab, bool)
	SetTab(bomType BomType, tab Tab)
}

// ModuleBOM is the deep link module handled by the BOM navigator.
const ModuleBOM = "bom"

// DeepLink is a one-shot instruction to land on a node of a BOM view.
type DeepLink struct {
	Module  string  `json:"module"`
	BomType BomType `json:"bomType"`
	NodeID  string  `json:"nodeId"`
}

// ParseDeepLink parses the compact "module:bomType:nodeId" form.
func ParseDeepLink(s string) (DeepLink, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return DeepLink{}, fmt.Errorf("invalid deep link %q: want module:bomType:nodeId", s)
	}
	bt, err := ParseBomType(parts[1])
	if err != nil {
		return DeepLink{}, err
	}
	return DeepLink{Module: parts[0], BomType: bt, NodeID: parts[2]}, nil
}
