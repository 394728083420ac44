package dto

import "github.com/Lynx-thelearner/BE-Wisata/internal/domain"

// LookupRequest creates a category, tag or facility.
type LookupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// LookupPatchRequest renames one.
type LookupPatchRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

var lookupIDKeys = map[domain.LookupKind]string{
	domain.LookupCategory: "id_category",
	domain.LookupTag:      "id_tag",
	domain.LookupFacility: "id_facility",
}

// NewLookupResponse renders item with its kind-specific id key.
func NewLookupResponse(kind domain.LookupKind, item *domain.Lookup) map[string]any {
	return map[string]any{
		lookupIDKeys[kind]: item.ID,
		"name":             item.Name,
	}
}

func NewLookupResponses(kind domain.LookupKind, items []domain.Lookup) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		out = append(out, NewLookupResponse(kind, &items[i]))
	}
	return out
}
