package listing

import "github.com/landmarket/backend/internal/domain/shared"

// Event types
const (
	EventTypeListingCreated = "listing.created"
	EventTypeListingUpdated = "listing.updated"
	EventTypeListingDeleted = "listing.deleted"
)

// Event is published after a listing write commits
type Event struct {
	shared.BaseDomainEvent
	SellerID uint64 `json:"seller_id"`
	Slug     string `json:"slug"`
}

// NewEvent builds an event of the given type for l
func NewEvent(eventType string, l *Listing) *Event {
	return &Event{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, l.ID),
		SellerID:        l.SellerID,
		Slug:            l.Slug,
	}
}
