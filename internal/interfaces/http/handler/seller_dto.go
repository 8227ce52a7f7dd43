package handler

import (
	"time"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/media"
)

// URLFunc resolves the public location of a stored image
type URLFunc func(media.Image) string

// SellerRequest carries the editable seller profile
type SellerRequest struct {
	Company     string `json:"company" binding:"omitempty,max=255"`
	Email       string `json:"email" binding:"required,email,max=255"`
	ClientURL   string `json:"client_url" binding:"required,url"`
	FirstName   string `json:"f_name" binding:"required,min=3,max=255"`
	LastName    string `json:"l_name" binding:"required,min=3,max=255"`
	MailAddress string `json:"mail_address" binding:"required,max=255"`
	PhoneNumber string `json:"phone_number" binding:"required,numeric,min=5,max=20"`
}

func (r SellerRequest) profile() identity.SellerProfile {
	return identity.SellerProfile{
		Company:     r.Company,
		Email:       r.Email,
		ClientURL:   r.ClientURL,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		MailAddress: r.MailAddress,
		PhoneNumber: r.PhoneNumber,
	}
}

// ImageResponse is a stored image with its public URL
type ImageResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Rendition string `json:"rendition"`
	URL       string `json:"url"`
}

// SellerResponse is the public view of a seller
type SellerResponse struct {
	ID          uint64         `json:"id"`
	UserID      uint64         `json:"user_id"`
	Slug        string         `json:"slug"`
	Company     string         `json:"company"`
	Email       string         `json:"email"`
	ClientURL   string         `json:"client_url"`
	FirstName   string         `json:"f_name"`
	LastName    string         `json:"l_name"`
	MailAddress string         `json:"mail_address"`
	PhoneNumber string         `json:"phone_number"`
	Verified    bool           `json:"verified"`
	Logo        *ImageResponse `json:"logo,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toImageResponse(img media.Image, url URLFunc) ImageResponse {
	resp := ImageResponse{ID: img.ID, Name: img.Name, Rendition: string(img.Rendition)}
	if url != nil {
		resp.URL = url(img)
	}
	return resp
}

func toImagePtr(img *media.Image, url URLFunc) *ImageResponse {
	if img == nil {
		return nil
	}
	resp := toImageResponse(*img, url)
	return &resp
}

func toSellerResponse(s *identity.Seller, url URLFunc) SellerResponse {
	return SellerResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Slug:        s.Slug,
		Company:     s.Company,
		Email:       s.Email,
		ClientURL:   s.ClientURL,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		MailAddress: s.MailAddress,
		PhoneNumber: s.PhoneNumber,
		Verified:    s.Verified,
		Logo:        toImagePtr(s.Logo, url),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
