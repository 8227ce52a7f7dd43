// Package seller manages seller profiles and their logos.
package seller

import (
	"context"
	"errors"
	"io"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ListingRemover deletes every listing of a seller with its images
type ListingRemover interface {
	DeleteBySeller(ctx context.Context, sellerID uint64) error
}

// LogoManager stores and removes seller logos
type LogoManager interface {
	SetLogo(ctx context.Context, src io.Reader, sellerID uint64) (*media.Image, error)
	DeleteLogos(ctx context.Context, sellerID uint64) error
}

// Service handles seller operations
type Service struct {
	sellers  identity.SellerRepository
	listings ListingRemover
	logos    LogoManager
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewService creates a new seller service
func NewService(sellers identity.SellerRepository, listings ListingRemover, logos LogoManager, events shared.EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sellers: sellers, listings: listings, logos: logos, events: events, logger: logger}
}

// View returns a seller by slug
func (s *Service) View(ctx context.Context, slug string) (*identity.Seller, error) {
	return s.sellers.FindBySlug(ctx, slug)
}

// Create registers the seller profile of the calling user. A user owns at
// most one seller and seller emails are unique.
func (s *Service) Create(ctx context.Context, actor identity.Actor, profile identity.SellerProfile) (*identity.Seller, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "seller", "create", telemetry.AttrUserID, actor.UserID)
	defer span.End()

	existing, err := s.sellers.FindByUserID(ctx, actor.UserID)
	switch {
	case err == nil && existing != nil:
		return nil, shared.AlreadyExists("seller")
	case err != nil && !errors.Is(err, shared.ErrNotFound):
		telemetry.RecordError(span, err)
		return nil, err
	}

	seller, err := identity.NewSeller(actor.UserID, profile)
	if err != nil {
		return nil, err
	}
	taken, err := s.sellers.ExistsByEmail(ctx, seller.Email, 0)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if taken {
		return nil, shared.AlreadyExists("seller")
	}

	slug, err := shared.UniqueSlug(seller.SlugSource(), func(candidate string) (bool, error) {
		return s.sellers.SlugExists(ctx, candidate)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	seller.Slug = slug

	if err := s.sellers.Create(ctx, seller); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.AttrSellerID, seller.ID)

	s.logger.Info("Seller created",
		zap.Uint64("seller_id", seller.ID),
		zap.Uint64("user_id", actor.UserID),
		zap.String("slug", seller.Slug),
	)
	return seller, nil
}

// Update changes the profile of a seller. The slug is kept.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id uint64, profile identity.SellerProfile) (*identity.Seller, error) {
	seller, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.sellers.ExistsByEmail(ctx, identity.NormalizeEmail(profile.Email), seller.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.AlreadyExists("seller")
	}
	if err := seller.Apply(profile); err != nil {
		return nil, err
	}
	if err := s.sellers.Update(ctx, seller); err != nil {
		return nil, err
	}

	s.logger.Info("Seller updated", zap.Uint64("seller_id", seller.ID), zap.Uint64("by", actor.UserID))
	s.publishUpdated(ctx, seller)
	return seller, nil
}

// Delete removes a seller with its listings, images and logo
func (s *Service) Delete(ctx context.Context, actor identity.Actor, id uint64) error {
	seller, err := s.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, seller)
}

// DeleteForUser removes the seller owned by userID, if any
func (s *Service) DeleteForUser(ctx context.Context, userID uint64) error {
	seller, err := s.sellers.FindByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.remove(ctx, seller)
}

// SetLogo replaces the logo of a seller
func (s *Service) SetLogo(ctx context.Context, actor identity.Actor, id uint64, src io.Reader) (*media.Image, error) {
	seller, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	logo, err := s.logos.SetLogo(ctx, src, seller.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Seller logo set", zap.Uint64("seller_id", seller.ID), zap.String("name", logo.Name))
	s.publishUpdated(ctx, seller)
	return logo, nil
}

// publishUpdated announces a change that listings embedding the seller must see
func (s *Service) publishUpdated(ctx context.Context, seller *identity.Seller) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, identity.NewSellerUpdatedEvent(seller)); err != nil {
		s.logger.Warn("Failed to publish seller event", zap.Uint64("seller_id", seller.ID), zap.Error(err))
	}
}

// manageable loads a seller and checks that actor owns it or is an admin
func (s *Service) manageable(ctx context.Context, actor identity.Actor, id uint64) (*identity.Seller, error) {
	seller, err := s.sellers.FindByPk(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(seller.UserID) {
		return nil, shared.ErrForbidden
	}
	return seller, nil
}

// remove deletes listings and logo files first; the rows they reference go last
func (s *Service) remove(ctx context.Context, seller *identity.Seller) error {
	if err := s.listings.DeleteBySeller(ctx, seller.ID); err != nil {
		return err
	}
	if err := s.logos.DeleteLogos(ctx, seller.ID); err != nil {
		return err
	}
	if err := s.sellers.Delete(ctx, seller.ID); err != nil {
		return err
	}
	s.logger.Info("Seller deleted", zap.Uint64("seller_id", seller.ID), zap.String("slug", seller.Slug))
	return nil
}
