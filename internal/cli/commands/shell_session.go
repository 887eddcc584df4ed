package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/bomscope/internal/cli/output"
	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// errQuit ends the shell loop.
var errQuit = errors.New("quit")

// shellSession executes shell lines against one workspace. It is separate
// from the readline loop so tests can drive it line by line.
type shellSession struct {
	ws *workspace.Workspace
	r  *output.Renderer
}

func newShellSession(ws *workspace.Workspace, r *output.Renderer) *shellSession {
	return &shellSession{ws: ws, r: r}
}

// exec runs one line. It returns errQuit when the user asked to leave.
func (s *shellSession) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		s.r.Println(shellHelp)
		return nil
	case "types":
		s.printTypes()
		return nil
	case "state":
		s.printState()
		return nil
	case "history":
		s.printHistory()
		return nil
	case "tree":
		s.printTree()
		return nil
	case "sim":
		return s.execSim(args)
	}
	return s.execNav(cmd, args)
}

func (s *shellSession) execNav(cmd string, args []string) error {
	switch cmd {
	case "type":
		if len(args) != 1 {
			return errors.New("usage: type <bom-type>")
		}
		bt, err := core.ParseBomType(args[0])
		if err != nil {
			return err
		}
		s.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) { nav.SelectBomType(bt) })

	case "tab":
		if len(args) != 1 {
			return errors.New("usage: tab <tab>")
		}
		tab := core.Tab(strings.ToLower(args[0]))
		var err error
		s.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) {
			bt := nav.State().BomType
			if !bt.AllowsTab(tab) {
				err = fmt.Errorf("%s view has no %q tab", bt, tab)
				return
			}
			nav.SelectTab(tab)
		})
		if err != nil {
			return err
		}

	case "select":
		if len(args) != 1 {
			return errors.New("usage: select <node-id>")
		}
		var found bool
		s.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) { found = nav.SelectNode(args[0]) != nil })
		if !found {
			s.r.Warning(fmt.Sprintf("node %q is not in this tree", args[0]))
		}

	case "expand", "collapse":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <node-id>", cmd)
		}
		s.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) { nav.ToggleExpand(args[0]) })

	case "jump":
		var err error
		s.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) {
			req := navigation.JumpRequest{RequirementIDs: args}
			if n, ok := nav.SelectedNode(); ok {
				req.SourceNodeID, req.SourceNodeName = n.ID, n.Name
				if len(req.RequirementIDs) == 0 {
					req.RequirementIDs = n.Requirements
				}
			}
			if len(req.RequirementIDs) == 0 {
				err = errors.New("no requirements to jump to")
				return
			}
			nav.NavigateToRequirement(req)
		})
		if err != nil {
			return err
		}

	case "back":
		var moved bool
		s.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) {
			moved = nav.Depth() > 0
			nav.JumpBack()
		})
		if !moved {
			s.r.Warning("jump stack is empty")
			return nil
		}

	case "forget":
		s.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) { nav.ClearJumpHistory() })

	case "focus":
		s.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) { nav.ClearPendingFocus() })

	case "open":
		if len(args) != 1 {
			return errors.New("usage: open <module:bom-type:node-id>")
		}
		link, err := core.ParseDeepLink(args[0])
		if err != nil {
			return err
		}
		if !s.ws.OpenLink(link) {
			s.r.Warning(fmt.Sprintf("link for module %q left pending", link.Module))
			return nil
		}

	default:
		return fmt.Errorf("unknown command %q (type help for commands)", cmd)
	}

	s.printLocation()
	return nil
}

func (s *shellSession) execSim(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: sim <command> (type help for commands)")
	}
	sub, args := strings.ToLower(args[0]), args[1:]

	var err error
	switch sub {
	case "select":
		err = s.simSelect(args)
	case "toggle":
		if len(args) != 1 {
			return errors.New("usage: sim toggle <id>")
		}
		s.dispatch(simexplorer.ToggleExpand{ID: args[0]})
	case "search":
		s.dispatch(simexplorer.SetSearch{Keyword: strings.Join(args, " ")})
	case "filter":
		err = s.simFilter(args)
	case "page":
		n, perr := intArg(args, "usage: sim page <n>")
		if perr != nil {
			return perr
		}
		s.dispatch(simexplorer.SetPage{Page: n})
	case "size":
		n, perr := intArg(args, "usage: sim size <10|20|50|100>")
		if perr != nil {
			return perr
		}
		if !simexplorer.ValidPageSize(n) {
			return fmt.Errorf("page size must be one of %v", simexplorer.PageSizes)
		}
		s.dispatch(simexplorer.SetPageSize{Size: n})
	case "add":
		err = s.simAdd(args, false)
	case "add-instance":
		err = s.simAdd(args, true)
	case "remove":
		if len(args) != 1 {
			return errors.New("usage: sim remove <file-id>")
		}
		s.dispatch(simexplorer.RemoveCompare{FileID: args[0]})
		s.printQueue()
		return nil
	case "clear":
		s.dispatch(simexplorer.ClearCompare{})
		s.printQueue()
		return nil
	case "queue":
		s.printQueue()
		return nil
	case "results":
	default:
		return fmt.Errorf("unknown sim command %q", sub)
	}
	if err != nil {
		return err
	}
	if sub != "add" && sub != "add-instance" {
		s.printResults()
	}
	return nil
}

func (s *shellSession) simSelect(args []string) error {
	if len(args) == 1 && args[0] == "none" {
		s.dispatch(simexplorer.SelectNode{})
		return nil
	}
	if len(args) != 2 {
		return errors.New("usage: sim select <category|instance|folder|file> <id> | sim select none")
	}
	kind, err := simexplorer.ParseSelectionKind(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	var ok bool
	s.ws.Do(func(_ *navigation.Controller, sim *simexplorer.Store) { ok = sim.SelectRef(kind, args[1]) })
	if !ok {
		return fmt.Errorf("no %s %q in the catalog", kind, args[1])
	}
	return nil
}

// simFilter parses key=value pairs. "keyword" sets the search text; any
// other key is a facet and an empty value removes it.
func (s *shellSession) simFilter(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: sim filter key=value ...")
	}
	raw := map[string]any{}
	facets := map[string]any{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid filter %q: want key=value", arg)
		}
		if k == "keyword" {
			raw["keyword"] = v
			continue
		}
		facets[k] = v
	}
	if len(facets) > 0 {
		raw["facets"] = facets
	}
	patch, err := simexplorer.DecodeFilterPatch(raw)
	if err != nil {
		return err
	}
	s.dispatch(simexplorer.SetFilters{Patch: patch})
	return nil
}

func (s *shellSession) simAdd(args []string, instance bool) error {
	if len(args) < 1 || len(args) > 2 {
		if instance {
			return errors.New("usage: sim add-instance <instance-id> [condition]")
		}
		return errors.New("usage: sim add <file-id> [condition]")
	}
	var cond string
	if len(args) == 2 {
		cond = args[1]
	}

	var added int
	var known bool
	s.ws.Do(func(_ *navigation.Controller, sim *simexplorer.Store) {
		if instance {
			_, _, known = sim.Catalog().Instance(args[0])
			added = sim.AddInstanceToCompare(args[0], cond)
			return
		}
		_, known = sim.Catalog().File(args[0])
		if sim.AddFileToCompare(args[0], cond) {
			added = 1
		}
	})

	switch {
	case !known:
		return fmt.Errorf("%q is not in the catalog", args[0])
	case added == 0:
		s.r.Warning(fmt.Sprintf("nothing added (already staged or queue full at %d)", simexplorer.MaxCompare))
	default:
		if ev, ok := s.toast(); ok {
			s.r.Success("added to compare: " + ev.Label)
		}
	}
	return nil
}

func (s *shellSession) dispatch(a simexplorer.Action) {
	s.ws.Do(func(_ *navigation.Controller, sim *simexplorer.Store) { sim.Dispatch(a) })
}

func (s *shellSession) toast() (ev simexplorer.CompareEvent, ok bool) {
	s.ws.Do(func(_ *navigation.Controller, sim *simexplorer.Store) { ev, ok = sim.Toast() })
	return ev, ok
}

func (s *shellSession) printLocation() {
	v := s.ws.Snapshot()
	loc := fmt.Sprintf("%s / %s", v.Nav.BomType, v.Nav.Tab)
	if v.Selected != nil {
		loc += fmt.Sprintf(" / %s %s", v.Selected.ID, v.Selected.Name)
	}
	if len(v.Jumps) > 0 {
		loc += fmt.Sprintf("  [jumps: %d]", len(v.Jumps))
	}
	s.r.Println(loc)
}

func (s *shellSession) printTypes() {
	cur := s.ws.Snapshot().Nav.BomType
	rows := make([][]string, 0, len(core.AllBomTypes()))
	for _, bt := range core.AllBomTypes() {
		mark := ""
		if bt == cur {
			mark = "*"
		}
		rows = append(rows, []string{mark, string(bt), string(bt.DefaultTab())})
	}
	s.r.Table([]string{"", "Type", "Default tab"}, rows)
}

func (s *shellSession) printState() {
	v := s.ws.Snapshot()
	if s.r.EffectiveMode() == output.ModeJSON {
		_ = s.r.JSON(map[string]any{"nav": v.Nav, "jumps": v.Jumps})
		return
	}
	focus := v.Nav.PendingFocus
	if focus == "" {
		focus = "-"
	}
	s.r.Table([]string{"Field", "Value"}, [][]string{
		{"BOM type", string(v.Nav.BomType)},
		{"Tab", string(v.Nav.Tab)},
		{"Selected", v.Nav.SelectedNodeID},
		{"Expanded", strings.Join(v.Nav.Expanded, ", ")},
		{"Pending focus", focus},
		{"Jump depth", strconv.Itoa(len(v.Jumps))},
	})
}

func (s *shellSession) printHistory() {
	v := s.ws.Snapshot()
	rows := make([][]string, len(v.Jumps))
	for i, e := range v.Jumps {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			string(e.FromBomType) + "/" + string(e.FromTab),
			e.FromNodeID,
			strings.Join(e.RequirementIDs, ", "),
		}
	}
	s.r.Table([]string{"#", "From", "Node", "Requirements"}, rows)
}

func (s *shellSession) printTree() {
	v := s.ws.Snapshot()
	if len(v.Tree) == 0 {
		s.r.Println("(empty)")
		return
	}
	var sb strings.Builder
	for _, row := range v.Tree {
		marker := "  "
		if row.HasChildren {
			marker = "+ "
			if row.Expanded {
				marker = "- "
			}
		}
		label := row.ID + "  " + row.Name
		if row.Selected {
			label = s.r.Styles().Selected.Render("> " + label)
		}
		sb.WriteString(strings.Repeat("  ", row.Level) + marker + label + "\n")
	}
	s.r.Println(strings.TrimRight(sb.String(), "\n"))
}

func (s *shellSession) printResults() {
	res := s.ws.Snapshot().Results
	rows := make([][]string, len(res.Items))
	for i, loc := range res.Items {
		rows[i] = []string{loc.File.ID, loc.File.Name, loc.File.Format, loc.File.Status, loc.InstanceID}
	}
	s.r.Table([]string{"ID", "Name", "Format", "Status", "Instance"}, rows)
	s.r.Println(fmt.Sprintf("page %d of %d (%d files)", res.Page, res.PageCount, res.Total))
}

func (s *shellSession) printQueue() {
	sim := s.ws.Snapshot().Sim
	rows := make([][]string, len(sim.Compare))
	for i, item := range sim.Compare {
		cond := item.ConditionID
		if item.ConditionName != "" {
			cond = item.ConditionName
		}
		rows[i] = []string{strconv.Itoa(i + 1), item.File.ID, item.File.Name, cond}
	}
	s.r.Table([]string{"#", "File", "Name", "Condition"}, rows)
	s.r.Println(fmt.Sprintf("%d of %d slots used", len(sim.Compare), simexplorer.MaxCompare))
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New(usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.New(usage)
	}
	return n, nil
}

const shellHelp = `Navigation:
  types                     List BOM types
  type <bom-type>           Switch BOM view
  tab <tab>                 Switch detail tab
  select <node-id>          Select a node
  expand <node-id>          Expand or collapse a node
  tree                      Show the visible tree
  jump [requirement-id...]  Open linked requirements (default: selected node's)
  back                      Return to where the last jump started
  forget                    Clear the jump history
  focus                     Acknowledge the pending requirement focus
  open <bom:type:node>      Follow a deep link
  state                     Show the navigation state
  history                   Show the jump stack

Simulation explorer:
  sim select <kind> <id>    Select a category, instance, folder or file
  sim select none           Clear the selection
  sim toggle <id>           Expand or collapse a catalog node
  sim search <keyword>      Search file names
  sim filter k=v ...        Set format/status facets or keyword (empty value clears)
  sim page <n>              Go to a results page
  sim size <n>              Set the page size (10, 20, 50, 100)
  sim results               Show the current results page
  sim add <file> [cond]     Stage a file for comparison
  sim add-instance <id> [cond]  Stage every file of an instance
  sim remove <file>         Unstage a file
  sim clear                 Empty the compare queue
  sim queue                 Show the compare queue

  help                      Show this help
  quit                      Leave the shell`
