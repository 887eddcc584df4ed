package simexplorer

import (
	"fmt"
	"slices"
)

// Reduce applies a to s and returns the next state. It is total: unknown
// actions and rejected inputs return s unchanged.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch a := a.(type) {
	case SelectNode:
		if a.Ref == nil {
			next.Selection = nil
		} else {
			ref := *a.Ref
			next.Selection = &ref
		}

	case ToggleExpand:
		if i := slices.Index(next.Expanded, a.ID); i >= 0 {
			next.Expanded = slices.Delete(next.Expanded, i, i+1)
		} else {
			next.Expanded = append(next.Expanded, a.ID)
		}

	case SetSearch:
		next.Filters.Keyword = a.Keyword
		next.Filters.Page = 1

	case SetFilters:
		if a.Patch.Keyword != nil {
			next.Filters.Keyword = *a.Patch.Keyword
		}
		for k, v := range a.Patch.Facets {
			if v == "" {
				delete(next.Filters.Facets, k)
			} else {
				next.Filters.Facets[k] = v
			}
		}
		next.Filters.Page = 1

	case SetPage:
		next.Filters.Page = max(a.Page, 1)

	case SetPageSize:
		if !ValidPageSize(a.Size) {
			return s
		}
		next.Filters.PageSize = a.Size
		next.Filters.Page = 1

	case AddCompare:
		item := newCompareItem(a.File, a.ConditionID, a.ConditionName)
		queue, added := appendCompare(next.Compare, item)
		if !added {
			return s
		}
		next.Compare = queue
		label := a.File.Name
		if item.ConditionName != "" {
			label = fmt.Sprintf("%s (%s)", a.File.Name, item.ConditionName)
		}
		raise(&next, EventFile, a.File.ID, label)

	case AddInstanceCompare:
		added := 0
		for _, f := range a.Files {
			var ok bool
			next.Compare, ok = appendCompare(next.Compare, newCompareItem(f, a.ConditionID, a.ConditionName))
			if ok {
				added++
			}
		}
		if added == 0 {
			return s
		}
		label := a.Label
		if label == "" {
			label = a.InstanceID
		}
		raise(&next, EventInstance, a.InstanceID, fmt.Sprintf("%s (%d files)", label, added))

	case RemoveCompare:
		queue, removed := removeCompare(next.Compare, a.FileID)
		if !removed {
			return s
		}
		next.Compare = queue

	case ClearCompare:
		next.Compare = []CompareItem{}

	case RegisterCompareEvent:
		raise(&next, a.Type, a.ID, a.Label)

	case Reset:
		events := s.Events
		next = Initial(a.PageSize)
		next.Events = events

	default:
		return s
	}

	return next
}

func raise(s *State, typ, id, label string) {
	s.Events++
	s.LastEvent = &CompareEvent{Seq: s.Events, Type: typ, ID: id, Label: label}
}
