package core

import "time"

// Store defines the interface for persisted UI state.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// Tab preference operations
	GetTabPreference(bomType BomType) (*TabPreference, error)
	SetTabPreference(bomType BomType, tab Tab) error
	ListTabPreferences() ([]*TabPreference, error)
	DeleteTabPreferences() error
}

// TabPreference is the last tab a user opened for a BOM type.
type TabPreference struct {
	BomType   BomType   `json:"bom_type"`
	Tab       Tab       `json:"tab"`
	UpdatedAt time.Time `json:"updated_at"`
}
