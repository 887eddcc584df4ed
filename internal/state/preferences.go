package state

import (
	"errors"
	"log/slog"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

// Preferences adapts a Store to the navigation preference channel. It is
// best effort: read and write failures are logged and otherwise ignored so
// navigation never fails on storage.
type Preferences struct {
	store  Store
	logger *slog.Logger
}

// NewPreferences wraps store. A nil store yields a channel that remembers
// nothing.
func NewPreferences(store Store, logger *slog.Logger) *Preferences {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Preferences{store: store, logger: logger}
}

// GetTab returns the stored tab for bomType.
func (p *Preferences) GetTab(bomType core.BomType) (core.Tab, bool) {
	if p.store == nil {
		return "", false
	}
	pref, err := p.store.GetTabPreference(bomType)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.logger.Warn("failed to read tab preference", "bom_type", bomType, "error", err)
		}
		return "", false
	}
	return pref.Tab, true
}

// SetTab stores tab for bomType.
func (p *Preferences) SetTab(bomType core.BomType, tab core.Tab) {
	if p.store == nil {
		return
	}
	if err := p.store.SetTabPreference(bomType, tab); err != nil {
		p.logger.Warn("failed to write tab preference", "bom_type", bomType, "tab", tab, "error", err)
	}
}
