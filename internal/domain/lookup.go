package domain

// LookupKind names one of the small id+name reference tables.
type LookupKind string

const (
	LookupCategory LookupKind = "category"
	LookupTag      LookupKind = "tag"
	LookupFacility LookupKind = "facility"
)

// Lookup is a category, tag or facility row.
type Lookup struct {
	ID   int64
	Name string
}
