package shared

import "fmt"

// EntityType tags the owner side of a polymorphic association
type EntityType string

const (
	EntityListing EntityType = "Listing"
	EntitySeller  EntityType = "Seller"
)

// ParseEntityType validates a stored owner tag
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityListing, EntitySeller:
		return EntityType(s), nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// Owner identifies the entity an image or share belongs to
type Owner struct {
	Type EntityType
	ID   uint64
}

// ListingOwner returns the owner reference for a listing
func ListingOwner(id uint64) Owner {
	return Owner{Type: EntityListing, ID: id}
}

// SellerOwner returns the owner reference for a seller
func SellerOwner(id uint64) Owner {
	return Owner{Type: EntitySeller, ID: id}
}

// Valid reports whether the owner has a known tag and a non-zero id
func (o Owner) Valid() bool {
	if o.ID == 0 {
		return false
	}
	_, err := ParseEntityType(string(o.Type))
	return err == nil
}

func (o Owner) String() string {
	return fmt.Sprintf("%s#%d", o.Type, o.ID)
}
