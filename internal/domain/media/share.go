package media

import (
	"time"

	"github.com/landmarket/backend/internal/domain/shared"
)

// Share records that an entity was shared on an external network.
// Shares are append-only.
type Share struct {
	ID        uint64
	Owner     shared.Owner
	NetworkID uint64
	CreatedAt time.Time
}

// NewShare validates and builds a share record
func NewShare(owner shared.Owner, networkID uint64) (*Share, error) {
	if !owner.Valid() {
		return nil, shared.Validation("invalid share owner")
	}
	if networkID == 0 {
		return nil, shared.Validation("network_id is required")
	}
	return &Share{
		Owner:     owner,
		NetworkID: networkID,
		CreatedAt: time.Now(),
	}, nil
}
