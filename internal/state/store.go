// Package state persists browser preferences in SQLite.
package state

import (
	"errors"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

type (
	// Store is an alias for core.Store.
	Store = core.Store

	// TabPreference is an alias for core.TabPreference.
	TabPreference = core.TabPreference
)

// ErrNotFound is returned when no preference is stored for a BOM type.
var ErrNotFound = errors.New("preference not found")

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
