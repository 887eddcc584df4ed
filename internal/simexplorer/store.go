package simexplorer

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

// Config holds the collaborators of a Store.
type Config struct {
	// Catalog is the read-only simulation hierarchy.
	Catalog *core.Catalog
	// PageSize is the initial page size; must be one of PageSizes.
	PageSize int
	// ToastDelay is how long compare toasts stay visible.
	ToastDelay time.Duration
	// OnToastDismiss is called from the timer goroutine when a toast expires.
	OnToastDismiss func(CompareEvent)
	Logger         *slog.Logger
}

// Store holds explorer state and applies actions through Reduce.
//
// Dispatch is not safe for concurrent use; hosts serialise events. Only the
// toast timer runs on its own goroutine and it never touches State.
type Store struct {
	catalog  *core.Catalog
	pageSize int
	logger   *slog.Logger
	toaster  *Toaster

	state     State
	listeners map[int]func(Action, State)
	nextID    int
}

// NewStore creates a store in its initial state.
func NewStore(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = &core.Catalog{}
	}
	pageSize := cfg.PageSize
	if !ValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return &Store{
		catalog:   catalog,
		pageSize:  pageSize,
		logger:    logger,
		toaster:   NewToaster(cfg.ToastDelay, cfg.OnToastDismiss),
		state:     Initial(pageSize),
		listeners: make(map[int]func(Action, State)),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}

// Catalog returns the catalog the store browses.
func (s *Store) Catalog() *core.Catalog {
	return s.catalog
}

// Results returns the current page of filtered files.
func (s *Store) Results() ResultPage {
	return Results(s.catalog, s.state)
}

// Toast returns the compare toast currently on screen.
func (s *Store) Toast() (CompareEvent, bool) {
	return s.toaster.Current()
}

// Subscribe registers fn to run after every dispatched action.
func (s *Store) Subscribe(fn func(Action, State)) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// Dispatch reduces a into the state, restarts the toast timer when a new
// compare event was raised, and returns the new state.
func (s *Store) Dispatch(a Action) State {
	if r, ok := a.(Reset); ok && r.PageSize == 0 {
		a = Reset{PageSize: s.pageSize}
	}

	prev := s.state
	s.state = Reduce(prev, a)

	if ev := s.state.LastEvent; ev != nil && (prev.LastEvent == nil || prev.LastEvent.Seq != ev.Seq) {
		s.toaster.Show(*ev)
	}
	if _, ok := a.(Reset); ok {
		s.toaster.Dismiss()
	}

	s.logger.Debug("explorer action", "action", a.Name(), "compare", len(s.state.Compare), "page", s.state.Filters.Page)

	next := s.state.Clone()
	for _, fn := range s.listeners {
		fn(a, next)
	}
	return next
}

// SelectRef resolves id against the catalog and selects it with its
// ancestors filled in. Unknown ids leave the selection unchanged.
func (s *Store) SelectRef(kind SelectionKind, id string) bool {
	ref, ok := s.resolve(kind, id)
	if !ok {
		return false
	}
	s.Dispatch(SelectNode{Ref: &ref})
	return true
}

func (s *Store) resolve(kind SelectionKind, id string) (Selection, bool) {
	switch kind {
	case SelectCategory:
		if _, ok := s.catalog.Category(id); ok {
			return Selection{Kind: kind, CategoryID: id}, true
		}
	case SelectInstance:
		if _, catID, ok := s.catalog.Instance(id); ok {
			return Selection{Kind: kind, CategoryID: catID, InstanceID: id}, true
		}
	case SelectFolder:
		return s.resolveFolder(id)
	case SelectFile:
		if loc, ok := s.catalog.File(id); ok {
			return Selection{Kind: kind, CategoryID: loc.CategoryID, InstanceID: loc.InstanceID, FolderID: loc.FolderID, FileID: id}, true
		}
	}
	return Selection{}, false
}

func (s *Store) resolveFolder(id string) (Selection, bool) {
	for _, cat := range s.catalog.Categories {
		for _, inst := range cat.Instances {
			for _, f := range inst.Folders {
				if f.ID == id {
					return Selection{Kind: SelectFolder, CategoryID: cat.ID, InstanceID: inst.ID, FolderID: id}, true
				}
			}
		}
	}
	return Selection{}, false
}

// AddFileToCompare stages a catalog file. It reports whether the queue
// changed.
func (s *Store) AddFileToCompare(fileID, conditionID string) bool {
	loc, ok := s.catalog.File(fileID)
	if !ok {
		return false
	}
	before := len(s.state.Compare)
	s.Dispatch(AddCompare{File: *loc.File, ConditionID: conditionID})
	return len(s.state.Compare) != before
}

// AddInstanceToCompare stages every file of a catalog instance. It returns
// how many files were added.
func (s *Store) AddInstanceToCompare(instanceID, conditionID string) int {
	inst, _, ok := s.catalog.Instance(instanceID)
	if !ok {
		return 0
	}
	var files []core.SimFile
	for _, folder := range inst.Folders {
		files = append(files, folder.Files...)
	}
	before := len(s.state.Compare)
	s.Dispatch(AddInstanceCompare{
		InstanceID:  inst.ID,
		Label:       inst.Name,
		Files:       files,
		ConditionID: conditionID,
	})
	return len(s.state.Compare) - before
}

// Repoint swaps the catalog after a reload. A selection that no longer
// resolves is cleared; the compare queue keeps its snapshots.
func (s *Store) Repoint(catalog *core.Catalog) {
	if catalog == nil {
		catalog = &core.Catalog{}
	}
	s.catalog = catalog
	if sel := s.state.Selection; sel != nil {
		if _, ok := s.resolve(sel.Kind, sel.ID()); !ok {
			s.Dispatch(SelectNode{})
		}
	}
}

// Close stops the toast timer.
func (s *Store) Close() {
	s.toaster.Close()
}
