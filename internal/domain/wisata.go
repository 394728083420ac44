package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WisataStatus controls public visibility of a site.
type WisataStatus string

const (
	WisataStatusDraft     WisataStatus = "draft"
	WisataStatusPublished WisataStatus = "published"
)

// NullPrice is an optional NUMERIC(10,2) ticket price.
type NullPrice = decimal.NullDecimal

// MaxTicketPrice is the first value that no longer fits NUMERIC(10,2).
var MaxTicketPrice = decimal.New(1, 8)

// Valid reports whether s is a known status.
func (s WisataStatus) Valid() bool {
	return s == WisataStatusDraft || s == WisataStatusPublished
}

// Wisata is the tourism-site aggregate: the site row plus its tag and
// facility names and its image collection.
type Wisata struct {
	ID          int64
	Name        string
	Description string
	Location    string
	TicketPrice NullPrice
	OpenTime    TimeOfDay
	CloseTime   TimeOfDay
	Status      WisataStatus
	CategoryID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tags       []string
	Facilities []string
	Images     []WisataImage
}

// Cover returns the primary image, falling back to the first image when
// none is flagged. The second return is false when there are no images.
func (w *Wisata) Cover() (WisataImage, bool) {
	for _, img := range w.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(w.Images) > 0 {
		return w.Images[0], true
	}
	return WisataImage{}, false
}

// WisataImage is an uploaded image. At most one per wisata is primary.
type WisataImage struct {
	ID        int64
	WisataID  int64
	Path      string
	IsPrimary bool
}

// WisataFields holds the scalar fields supplied on create.
type WisataFields struct {
	Name        string
	Description string
	Location    string
	TicketPrice NullPrice
	OpenTime    TimeOfDay
	CloseTime   TimeOfDay
	Status      WisataStatus
}

// WisataPatch is the whitelist of patchable wisata fields. A nil pointer
// leaves the field untouched; a non-nil TagIDs/FacilityIDs replaces the
// association set, even with an empty slice.
type WisataPatch struct {
	Name        *string
	Description *string
	Location    *string
	TicketPrice *NullPrice
	OpenTime    *TimeOfDay
	CloseTime   *TimeOfDay
	Status      *WisataStatus
	CategoryID  *int64
	TagIDs      *[]int64
	FacilityIDs *[]int64
}

// Apply copies the present scalar fields onto w.
func (p WisataPatch) Apply(w *Wisata) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Location != nil {
		w.Location = *p.Location
	}
	if p.TicketPrice != nil {
		w.TicketPrice = *p.TicketPrice
	}
	if p.OpenTime != nil {
		w.OpenTime = *p.OpenTime
	}
	if p.CloseTime != nil {
		w.CloseTime = *p.CloseTime
	}
	if p.Status != nil {
		w.Status = *p.Status
	}
	if p.CategoryID != nil {
		w.CategoryID = *p.CategoryID
	}
}
