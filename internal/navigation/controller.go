package navigation

import (
	"log/slog"
	"slices"
	"time"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

// Config holds the collaborators of a Controller.
type Config struct {
	// Source supplies the tree index for each BOM type.
	Source core.TreeSource
	// Preferences remembers the last manual tab per BOM type. Optional.
	Preferences core.TabPreferences
	// InitialBomType is the view the controller opens on. Defaults to solution.
	InitialBomType core.BomType
	// Clock stamps jump entries. Defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// Controller is the single source of truth for where the user is.
//
// A Controller is not safe for concurrent use: every call is one event of a
// single UI event loop and hosts must serialise them.
type Controller struct {
	source core.TreeSource
	prefs  core.TabPreferences
	clock  func() time.Time
	logger *slog.Logger

	state State
	stack []JumpEntry

	listeners map[int]func(Change)
	nextID    int
}

// New creates a controller positioned on the default context of the initial
// BOM type.
func New(cfg Config) *Controller {
	c := &Controller{
		source:    cfg.Source,
		prefs:     cfg.Preferences,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
		listeners: make(map[int]func(Change)),
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	bt := cfg.InitialBomType
	if !bt.Valid() {
		bt = core.BomSolution
	}
	c.resetTo(bt, c.preferredTab(bt))
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state.Clone()
}

// Depth returns the number of saved jump contexts.
func (c *Controller) Depth() int {
	return len(c.stack)
}

// JumpStack returns a copy of the jump stack, oldest first.
func (c *Controller) JumpStack() []JumpEntry {
	out := make([]JumpEntry, len(c.stack))
	for i, e := range c.stack {
		out[i] = e.clone()
	}
	return out
}

// Index returns the tree index of the active BOM type.
func (c *Controller) Index() core.TreeIndex {
	return c.index(c.state.BomType)
}

// SelectedNode returns the selected node of the active tree, if any.
func (c *Controller) SelectedNode() (*core.TreeNode, bool) {
	if c.state.SelectedNodeID == "" {
		return nil, false
	}
	return c.Index().Node(c.state.SelectedNodeID)
}

// Subscribe registers fn to be called after every applied transition.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Change)) func() {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

// SelectBomType switches the active BOM type and resets tab, selection and
// expansion to that type's defaults. Leaving the requirement type this way
// discards the jump history.
func (c *Controller) SelectBomType(bt core.BomType) {
	if !bt.Valid() {
		return
	}
	prev := c.state.Clone()
	c.applySelectBomType(bt)
	c.commit(Manual, OpSelectBomType, prev)
}

func (c *Controller) applySelectBomType(bt core.BomType) {
	if c.state.BomType == core.BomRequirement && bt != core.BomRequirement {
		c.clearHistory()
	}
	c.resetTo(bt, c.preferredTab(bt))
}

// SelectTab switches the detail tab if the active BOM type offers it and
// remembers the choice. Leaving the requirement tab by hand while in the
// requirement view discards the jump history.
func (c *Controller) SelectTab(tab core.Tab) {
	if !c.state.BomType.AllowsTab(tab) {
		return
	}
	prev := c.state.Clone()
	if c.state.BomType == core.BomRequirement && prev.Tab == core.TabRequirement && tab != core.TabRequirement {
		c.clearHistory()
	}
	c.state.Tab = tab
	if c.prefs != nil {
		c.prefs.SetTab(c.state.BomType, tab)
	}
	c.commit(Manual, OpSelectTab, prev)
}

// SelectNode selects a node of the active tree and returns it, or nil when
// the id is unknown to the tree. In the requirement view the requirement tab
// is forced.
func (c *Controller) SelectNode(id string) *core.TreeNode {
	prev := c.state.Clone()
	c.state.SelectedNodeID = id
	if c.state.BomType == core.BomRequirement {
		c.state.Tab = core.TabRequirement
	}
	c.commit(Manual, OpSelectNode, prev)

	n, ok := c.Index().Node(id)
	if !ok {
		return nil
	}
	return n
}

// ToggleExpand opens id if it is collapsed and closes it otherwise.
func (c *Controller) ToggleExpand(id string) {
	prev := c.state.Clone()
	c.state.Expanded = toggle(c.state.Expanded, id)
	c.commit(Manual, OpToggleExpand, prev)
}

// NavigateToRequirement saves the current context on the jump stack and opens
// the requirement view on the node owning the first requirement id. It does
// nothing when no ids are given. Unresolvable ids land on the requirement
// root.
func (c *Controller) NavigateToRequirement(req JumpRequest) {
	if len(req.RequirementIDs) == 0 {
		return
	}
	prev := c.state.Clone()

	first := req.RequirementIDs[0]
	target, path := c.resolveRequirement(first)

	c.stack = append(c.stack, JumpEntry{
		FromBomType:       prev.BomType,
		FromTab:           prev.Tab,
		FromNodeID:        prev.SelectedNodeID,
		FromExpandedNodes: slices.Clone(prev.Expanded),
		RequirementIDs:    slices.Clone(req.RequirementIDs),
		SourceNodeID:      req.SourceNodeID,
		SourceNodeName:    req.SourceNodeName,
		CreatedAt:         c.clock(),
	})

	c.state = State{
		BomType:        core.BomRequirement,
		Tab:            core.TabRequirement,
		SelectedNodeID: target,
		Expanded:       slices.Clone(path[:len(path)-1]),
		PendingFocus:   first,
	}
	c.logger.Debug("jumped to requirement",
		"requirement", first, "node", target, "from", prev.BomType, "depth", len(c.stack))
	c.commit(Automatic, OpNavigateToRequirement, prev)
}

func (c *Controller) resolveRequirement(requirementID string) (string, []string) {
	idx := c.index(core.BomRequirement)
	if owner, ok := idx.OwnerOf(requirementID); ok {
		if path, ok := idx.PathTo(owner); ok {
			return owner, path
		}
	}
	c.logger.Debug("requirement not in tree, using root", "requirement", requirementID)
	if path, ok := idx.PathTo(FallbackRequirementRoot); ok {
		return FallbackRequirementRoot, path
	}
	return FallbackRequirementRoot, []string{FallbackRequirementRoot}
}

// JumpBack restores the most recently saved context. It does nothing when
// the jump stack is empty.
func (c *Controller) JumpBack() {
	if len(c.stack) == 0 {
		return
	}
	prev := c.state.Clone()
	entry := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]

	c.state = State{
		BomType:        entry.FromBomType,
		Tab:            entry.FromTab,
		SelectedNodeID: entry.FromNodeID,
		Expanded:       slices.Clone(entry.FromExpandedNodes),
	}
	c.commit(Automatic, OpJumpBack, prev)
}

// ClearJumpHistory empties the jump stack and drops any pending focus.
func (c *Controller) ClearJumpHistory() {
	prev := c.state.Clone()
	c.clearHistory()
	c.commit(Manual, OpClearJumpHistory, prev)
}

func (c *Controller) clearHistory() {
	c.stack = nil
	c.state.PendingFocus = ""
}

// ClearPendingFocus acknowledges that the detail panel scrolled to the
// pending requirement.
func (c *Controller) ClearPendingFocus() {
	if c.state.PendingFocus == "" {
		return
	}
	prev := c.state.Clone()
	c.state.PendingFocus = ""
	c.commit(Manual, OpClearPendingFocus, prev)
}

// ConsumeDeepLink applies the pending BOM deep link of inbox, if any, and
// acknowledges it. Links for other modules are left in the inbox. It reports
// whether a link was consumed.
func (c *Controller) ConsumeDeepLink(inbox *Inbox) bool {
	link, ok := inbox.Pending()
	if !ok || link.Module != core.ModuleBOM {
		return false
	}
	defer inbox.Ack()

	if !link.BomType.Valid() {
		c.logger.Debug("ignoring deep link with unknown BOM type", "bom_type", link.BomType)
		return true
	}

	prev := c.state.Clone()
	c.applySelectBomType(link.BomType)
	if path, ok := c.index(link.BomType).PathTo(link.NodeID); ok {
		c.state.SelectedNodeID = link.NodeID
		for _, id := range path[:len(path)-1] {
			if !slices.Contains(c.state.Expanded, id) {
				c.state.Expanded = append(c.state.Expanded, id)
			}
		}
	} else {
		c.logger.Debug("deep link node not found", "bom_type", link.BomType, "node", link.NodeID)
	}
	c.commit(Manual, OpDeepLink, prev)
	return true
}

// Repoint swaps the tree source, e.g. after the dataset was reloaded. The
// state is kept; a selection or expanded ids that no longer exist are
// dropped. Saved jump contexts are restored verbatim on JumpBack.
func (c *Controller) Repoint(source core.TreeSource) {
	prev := c.state.Clone()
	c.source = source

	idx := c.Index()
	if _, ok := idx.Node(c.state.SelectedNodeID); !ok {
		c.state.SelectedNodeID = ""
	}
	kept := c.state.Expanded[:0]
	for _, id := range c.state.Expanded {
		if _, ok := idx.Node(id); ok {
			kept = append(kept, id)
		}
	}
	c.state.Expanded = kept
	c.commit(Automatic, OpRepoint, prev)
}

func (c *Controller) resetTo(bt core.BomType, tab core.Tab) {
	c.state = State{BomType: bt, Tab: tab, Expanded: []string{}}
	if roots := c.index(bt).Roots(); len(roots) > 0 {
		c.state.SelectedNodeID = roots[0].ID
		c.state.Expanded = []string{roots[0].ID}
	}
}

func (c *Controller) preferredTab(bt core.BomType) core.Tab {
	if c.prefs != nil {
		if tab, ok := c.prefs.GetTab(bt); ok && bt.AllowsTab(tab) {
			return tab
		}
	}
	return bt.DefaultTab()
}

func (c *Controller) index(bt core.BomType) core.TreeIndex {
	if c.source == nil {
		return emptyIndex{}
	}
	if idx := c.source.Index(bt); idx != nil {
		return idx
	}
	return emptyIndex{}
}

func (c *Controller) commit(kind TransitionKind, op Op, prev State) {
	if c.state.Expanded == nil {
		c.state.Expanded = []string{}
	}
	if len(c.listeners) == 0 {
		return
	}
	ch := Change{Kind: kind, Op: op, Prev: prev, Next: c.state.Clone()}
	for _, fn := range c.listeners {
		fn(ch)
	}
}

// toggle returns set with id removed if present, appended otherwise.
func toggle(set []string, id string) []string {
	if i := slices.Index(set, id); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), id)
}

type emptyIndex struct{}

func (emptyIndex) Roots() []core.TreeNode             { return nil }
func (emptyIndex) Node(string) (*core.TreeNode, bool) { return nil, false }
func (emptyIndex) PathTo(string) ([]string, bool)     { return nil, false }
func (emptyIndex) OwnerOf(string) (string, bool)      { return "", false }
