package simexplorer

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeFilterPatch converts a loosely typed payload, such as browser
// signals or shell arguments, into a FilterPatch. Scalar facet values are
// converted to strings and unknown keys are rejected.
func DecodeFilterPatch(raw map[string]any) (FilterPatch, error) {
	var patch FilterPatch
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &patch,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return FilterPatch{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return FilterPatch{}, fmt.Errorf("invalid filter patch: %w", err)
	}
	for k := range patch.Facets {
		if k != FacetFormat && k != FacetStatus {
			return FilterPatch{}, fmt.Errorf("invalid filter patch: unknown facet %q", k)
		}
	}
	return patch, nil
}

// ParseSelectionKind converts user input into a SelectionKind.
func ParseSelectionKind(s string) (SelectionKind, error) {
	switch k := SelectionKind(s); k {
	case SelectCategory, SelectInstance, SelectFolder, SelectFile:
		return k, nil
	}
	return "", fmt.Errorf("unknown selection kind %q", s)
}
