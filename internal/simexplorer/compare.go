package simexplorer

import "github.com/leapstack-labs/bomscope/pkg/core"

// DefaultCondition is the condition key used when neither the caller nor the
// file names one.
const DefaultCondition = "default"

// CompareItem is a file staged for side-by-side comparison under one
// condition.
type CompareItem struct {
	File          core.SimFile `json:"file"`
	ConditionID   string       `json:"conditionId"`
	ConditionName string       `json:"conditionName,omitempty"`
	Key           string       `json:"compareKey"`
}

// ResolveCondition returns the condition a file is compared under: the
// requested one, else the file's default, else DefaultCondition.
func ResolveCondition(file core.SimFile, conditionID string) string {
	if conditionID != "" {
		return conditionID
	}
	if file.DefaultConditionID != "" {
		return file.DefaultConditionID
	}
	return DefaultCondition
}

// ComputeCompareKey derives the uniqueness key of a compare item. Every add
// path goes through this function.
func ComputeCompareKey(file core.SimFile, conditionID string) string {
	return file.ID + "::" + ResolveCondition(file, conditionID)
}

// newCompareItem builds the queue entry for file under conditionID.
func newCompareItem(file core.SimFile, conditionID, conditionName string) CompareItem {
	cond := ResolveCondition(file, conditionID)
	if conditionName == "" {
		if c, ok := file.Condition(cond); ok {
			conditionName = c.Name
		}
	}
	return CompareItem{
		File:          file,
		ConditionID:   cond,
		ConditionName: conditionName,
		Key:           ComputeCompareKey(file, conditionID),
	}
}

// appendCompare adds item to queue unless its key is already present or the
// queue is full. The input slice is never modified.
func appendCompare(queue []CompareItem, item CompareItem) ([]CompareItem, bool) {
	if len(queue) >= MaxCompare {
		return queue, false
	}
	for _, q := range queue {
		if q.Key == item.Key {
			return queue, false
		}
	}
	out := make([]CompareItem, len(queue), len(queue)+1)
	copy(out, queue)
	return append(out, item), true
}

// removeCompare drops every item of fileID, keeping the order of the rest.
func removeCompare(queue []CompareItem, fileID string) ([]CompareItem, bool) {
	out := make([]CompareItem, 0, len(queue))
	for _, q := range queue {
		if q.File.ID != fileID {
			out = append(out, q)
		}
	}
	return out, len(out) != len(queue)
}

// CompareKeys returns the keys of the queue in order.
func CompareKeys(s State) []string {
	keys := make([]string, len(s.Compare))
	for i, q := range s.Compare {
		keys[i] = q.Key
	}
	return keys
}
