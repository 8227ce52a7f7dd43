package identity

import (
	"regexp"
	"strings"

	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
)

var phoneRegex = regexp.MustCompile(`^[0-9]{5,20}$`)

// Seller is the company profile a user lists land under.
// A user owns at most one seller.
type Seller struct {
	shared.BaseEntity
	UserID      uint64
	Slug        string
	Company     string
	Email       string
	ClientURL   string
	FirstName   string
	LastName    string
	MailAddress string
	PhoneNumber string
	Verified    bool
	Logo        *media.Image
}

// SellerProfile carries the editable seller fields
type SellerProfile struct {
	Company     string
	Email       string
	ClientURL   string
	FirstName   string
	LastName    string
	MailAddress string
	PhoneNumber string
}

// NewSeller validates a profile and builds an unverified seller for userID
func NewSeller(userID uint64, p SellerProfile) (*Seller, error) {
	s := &Seller{BaseEntity: shared.NewBaseEntity(), UserID: userID}
	if err := s.Apply(p); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply validates and copies profile fields onto the seller
func (s *Seller) Apply(p SellerProfile) error {
	p.Email = NormalizeEmail(p.Email)
	if err := validateEmail(p.Email); err != nil {
		return err
	}
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.FirstName == "" || p.LastName == "" {
		return shared.Validation("f_name and l_name are required")
	}
	if err := validateName("f_name", p.FirstName); err != nil {
		return err
	}
	if err := validateName("l_name", p.LastName); err != nil {
		return err
	}
	if strings.TrimSpace(p.ClientURL) == "" {
		return shared.Validation("clientUrl is required")
	}
	if strings.TrimSpace(p.MailAddress) == "" {
		return shared.Validation("mail_address is required")
	}
	if len(p.MailAddress) > 255 {
		return shared.Validation("mail_address cannot exceed 255 characters")
	}
	if !phoneRegex.MatchString(strings.TrimSpace(p.PhoneNumber)) {
		return shared.Validation("phone_number must be numeric")
	}

	s.Company = strings.TrimSpace(p.Company)
	s.Email = p.Email
	s.ClientURL = strings.TrimSpace(p.ClientURL)
	s.FirstName = p.FirstName
	s.LastName = p.LastName
	s.MailAddress = strings.TrimSpace(p.MailAddress)
	s.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	s.Touch()
	return nil
}

// SlugSource is the text the seller slug is derived from
func (s *Seller) SlugSource() string {
	if s.Company != "" {
		return s.Company
	}
	return s.FirstName + " " + s.LastName
}

// Verify marks the seller as verified by an administrator
func (s *Seller) Verify() {
	s.Verified = true
	s.Touch()
}

// Owner returns the polymorphic owner reference of this seller
func (s *Seller) Owner() shared.Owner {
	return shared.SellerOwner(s.ID)
}

// SellerEvent is published when a seller changes in a way that shows up on
// its listings
type SellerEvent struct {
	shared.BaseDomainEvent
	UserID uint64 `json:"user_id"`
	Slug   string `json:"slug"`
}

// Seller event types
const (
	EventTypeSellerVerified = "seller.verified"
	EventTypeSellerUpdated  = "seller.updated"
)

func newSellerEvent(eventType string, s *Seller) *SellerEvent {
	return &SellerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, s.ID),
		UserID:          s.UserID,
		Slug:            s.Slug,
	}
}

// NewSellerVerifiedEvent is published when an administrator verifies s
func NewSellerVerifiedEvent(s *Seller) *SellerEvent {
	return newSellerEvent(EventTypeSellerVerified, s)
}

// NewSellerUpdatedEvent is published when the profile or logo of s changes
func NewSellerUpdatedEvent(s *Seller) *SellerEvent {
	return newSellerEvent(EventTypeSellerUpdated, s)
}
