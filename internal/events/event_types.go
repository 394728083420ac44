package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventWisataCreated       EventType = "wisata_created"
	EventWisataUpdated       EventType = "wisata_updated"
	EventWisataDeleted       EventType = "wisata_deleted"
	EventImageUploaded       EventType = "wisata_image_uploaded"
	EventImageDeleted        EventType = "wisata_image_deleted"
	EventUserReviewCreated   EventType = "user_review_created"
	EventEditorReviewCreated EventType = "editor_review_created"
	EventLookupUpdated       EventType = "lookup_updated"
	EventLookupDeleted       EventType = "lookup_deleted"
)

// AllEventTypes lists every type a catch-all subscriber should register for.
var AllEventTypes = []EventType{
	EventWisataCreated,
	EventWisataUpdated,
	EventWisataDeleted,
	EventImageUploaded,
	EventImageDeleted,
	EventUserReviewCreated,
	EventEditorReviewCreated,
	EventLookupUpdated,
	EventLookupDeleted,
}

// AffectsCatalog reports whether the event can change the public listing.
func (t EventType) AffectsCatalog() bool {
	switch t {
	case EventWisataCreated, EventWisataUpdated, EventWisataDeleted, EventImageUploaded, EventImageDeleted,
		EventLookupUpdated, EventLookupDeleted:
		return true
	}
	return false
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	WisataID  int64       `json:"wisata_id"`
	ActorID   *int64      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, wisataID int64, actorID *int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		WisataID:  wisataID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// WisataChangedPayload accompanies create/update events.
type WisataChangedPayload struct {
	Name   string `json:"nama_wisata"`
	Status string `json:"status"`
}

// ImagePayload accompanies image upload/delete events.
type ImagePayload struct {
	ImageID    int64  `json:"id_image"`
	Path       string `json:"image_url"`
	IsPrimary  bool   `json:"is_primary"`
	PromotedID *int64 `json:"promoted_id_image,omitempty"`
}

// UserReviewPayload accompanies user review creation.
type UserReviewPayload struct {
	ReviewID int64 `json:"id_review"`
	Rating   int   `json:"rating"`
}

// EditorReviewPayload accompanies editor review creation.
type EditorReviewPayload struct {
	ReviewID       int64  `json:"id_review"`
	Title          string `json:"title"`
	Recommendation string `json:"recommendation_level"`
}

// LookupPayload accompanies category, tag and facility renames and deletes.
type LookupPayload struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
