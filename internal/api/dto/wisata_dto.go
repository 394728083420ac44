package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
)

// OptionalPrice distinguishes an absent ticket_price from an explicit null.
type OptionalPrice struct {
	Set   bool
	Value domain.NullPrice
}

func (p *OptionalPrice) UnmarshalJSON(b []byte) error {
	p.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		p.Value = domain.NullPrice{}
		return nil
	}
	return p.Value.UnmarshalJSON(b)
}

// CreateWisataRequest payload for POST /wisata.
type CreateWisataRequest struct {
	Name        string               `json:"nama_wisata" validate:"required"`
	Description string               `json:"deskripsi" validate:"required"`
	Location    string               `json:"lokasi" validate:"required"`
	TicketPrice domain.NullPrice     `json:"ticket_price"`
	OpenTime    *domain.TimeOfDay    `json:"open_time" validate:"required"`
	CloseTime   *domain.TimeOfDay    `json:"close_time" validate:"required"`
	Status      *domain.WisataStatus `json:"status" validate:"omitempty,oneof=draft published"`
	CategoryID  int64                `json:"category_id" validate:"required,gt=0"`
	TagIDs      []int64              `json:"tag_id"`
	FacilityIDs []int64              `json:"facility_id"`
}

func (r CreateWisataRequest) Input() service.CreateWisataInput {
	fields := domain.WisataFields{
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		TicketPrice: r.TicketPrice,
		OpenTime:    *r.OpenTime,
		CloseTime:   *r.CloseTime,
	}
	if r.Status != nil {
		fields.Status = *r.Status
	}
	return service.CreateWisataInput{
		Fields:      fields,
		CategoryID:  r.CategoryID,
		TagIDs:      r.TagIDs,
		FacilityIDs: r.FacilityIDs,
	}
}

// UpdateWisataRequest payload for PATCH /wisata/:id. Only present keys apply;
// tag_id and facility_id replace the set when present, even when empty.
type UpdateWisataRequest struct {
	Name        *string              `json:"nama_wisata" validate:"omitempty,min=1"`
	Description *string              `json:"deskripsi"`
	Location    *string              `json:"lokasi"`
	TicketPrice OptionalPrice        `json:"ticket_price"`
	OpenTime    *domain.TimeOfDay    `json:"open_time"`
	CloseTime   *domain.TimeOfDay    `json:"close_time"`
	Status      *domain.WisataStatus `json:"status" validate:"omitempty,oneof=draft published"`
	CategoryID  *int64               `json:"category_id" validate:"omitempty,gt=0"`
	TagIDs      *[]int64             `json:"tag_id"`
	FacilityIDs *[]int64             `json:"facility_id"`
}

func (r UpdateWisataRequest) Patch() domain.WisataPatch {
	patch := domain.WisataPatch{
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		OpenTime:    r.OpenTime,
		CloseTime:   r.CloseTime,
		Status:      r.Status,
		CategoryID:  r.CategoryID,
		TagIDs:      r.TagIDs,
		FacilityIDs: r.FacilityIDs,
	}
	if r.TicketPrice.Set {
		price := r.TicketPrice.Value
		patch.TicketPrice = &price
	}
	return patch
}

// WisataImageResponse describes one image.
type WisataImageResponse struct {
	ID        int64  `json:"id_image"`
	WisataID  int64  `json:"id_wisata"`
	URL       string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

// WisataResponse is the hydrated aggregate.
type WisataResponse struct {
	ID          int64               `json:"id_wisata"`
	Name        string              `json:"nama_wisata"`
	Description string              `json:"deskripsi"`
	Location    string              `json:"lokasi"`
	TicketPrice *string             `json:"ticket_price"`
	OpenTime    domain.TimeOfDay    `json:"open_time"`
	CloseTime   domain.TimeOfDay    `json:"close_time"`
	Status      domain.WisataStatus `json:"status"`
	CategoryID  int64               `json:"category_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Tags        []string            `json:"tags"`
	Facilities  []string            `json:"facilities"`
	Images      []string            `json:"images"`
	ImageCover  string              `json:"image_cover"`
}

// NewWisataResponse renders w, resolving image paths with url.
func NewWisataResponse(w *domain.Wisata, url func(string) string) WisataResponse {
	resp := WisataResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Location:    w.Location,
		OpenTime:    w.OpenTime,
		CloseTime:   w.CloseTime,
		Status:      w.Status,
		CategoryID:  w.CategoryID,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Tags:        nonNilStrings(w.Tags),
		Facilities:  nonNilStrings(w.Facilities),
		Images:      make([]string, 0, len(w.Images)),
	}
	if w.TicketPrice.Valid {
		price := w.TicketPrice.Decimal.StringFixed(2)
		resp.TicketPrice = &price
	}
	for _, img := range w.Images {
		resp.Images = append(resp.Images, url(img.Path))
	}
	if cover, ok := w.Cover(); ok {
		resp.ImageCover = url(cover.Path)
	}
	return resp
}

func NewWisataResponses(items []domain.Wisata, url func(string) string) []WisataResponse {
	out := make([]WisataResponse, 0, len(items))
	for i := range items {
		out = append(out, NewWisataResponse(&items[i], url))
	}
	return out
}

func NewWisataImageResponse(img *domain.WisataImage, url func(string) string) WisataImageResponse {
	return WisataImageResponse{ID: img.ID, WisataID: img.WisataID, URL: url(img.Path), IsPrimary: img.IsPrimary}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var _ json.Unmarshaler = (*OptionalPrice)(nil)
