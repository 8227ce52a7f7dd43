// Package admin implements administrator operations on users and sellers.
package admin

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/export"
	"go.uber.org/zap"
)

// exportColumns is the header of a user export
var exportColumns = []string{"id", "email", "f_name", "l_name", "role", "created_at"}

// Export is a rendered user export
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// Service handles administrator operations
type Service struct {
	users   identity.AdminRepository
	sellers identity.SellerRepository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewService creates a new admin service
func NewService(users identity.AdminRepository, sellers identity.SellerRepository, events shared.EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, sellers: sellers, events: events, logger: logger}
}

// VerifySeller marks a seller as verified and announces it
func (s *Service) VerifySeller(ctx context.Context, sellerID uint64) (*identity.Seller, error) {
	seller, err := s.sellers.FindByPk(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Verified {
		return seller, nil
	}
	seller.Verify()
	if err := s.sellers.Update(ctx, seller); err != nil {
		return nil, err
	}

	s.logger.Info("Seller verified", zap.Uint64("seller_id", seller.ID), zap.String("slug", seller.Slug))
	if s.events != nil {
		if err := s.events.Publish(ctx, identity.NewSellerVerifiedEvent(seller)); err != nil {
			s.logger.Warn("Failed to publish seller event", zap.Uint64("seller_id", seller.ID), zap.Error(err))
		}
	}
	return seller, nil
}

// GetAllUsers returns a page of users ordered by id
func (s *Service) GetAllUsers(ctx context.Context, page shared.Page) (shared.Paginated[*identity.User], error) {
	return s.users.GetAllUsers(ctx, page)
}

// FindUsers searches users by name, email and role. Unknown filter keys are dropped.
func (s *Service) FindUsers(ctx context.Context, filters identity.UserFilters, page shared.Page) (shared.Paginated[*identity.User], error) {
	filters = filters.Project()
	if role, ok := filters["role"]; ok {
		if _, err := strconv.Atoi(role); err != nil {
			return shared.Paginated[*identity.User]{}, shared.Validation("role must be a number")
		}
	}
	return s.users.FindUsers(ctx, filters, page)
}

// ExportUsers renders the given users, or every user when ids is empty,
// as a csv or tsv attachment
func (s *Service) ExportUsers(ctx context.Context, ids []uint64, format string) (*Export, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, shared.Validation("format must be csv or tsv")
	}
	users, err := s.users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := export.NewWriter(&buf, f)
	if err := w.WriteHeader(exportColumns...); err != nil {
		return nil, shared.Storage(err)
	}
	for _, u := range users {
		if err := w.WriteRow(
			strconv.FormatUint(u.ID, 10),
			u.Email,
			u.FirstName,
			u.LastName,
			strconv.Itoa(int(u.Role)),
			u.CreatedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return nil, shared.Storage(err)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, shared.Storage(err)
	}

	s.logger.Info("Users exported", zap.Int("rows", w.Rows()), zap.String("format", string(f)))
	return &Export{
		Filename:    f.Filename("users"),
		ContentType: f.ContentType(),
		Data:        buf.Bytes(),
		Rows:        w.Rows(),
	}, nil
}
