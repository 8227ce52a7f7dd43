package models

import (
	"time"

	"github.com/landmarket/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email        string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName    string        `gorm:"column:f_name;type:varchar(255)"`
	LastName     string        `gorm:"column:l_name;type:varchar(255)"`
	PasswordHash string        `gorm:"column:password;type:varchar(255);not null"`
	Role         identity.Role `gorm:"not null;default:0"`
	LastLoginAt  *time.Time
	Seller       *SellerModel `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// SellerModel is the persistence model for the Seller domain entity.
type SellerModel struct {
	BaseModel
	UserID      uint64      `gorm:"not null;uniqueIndex"`
	Slug        string      `gorm:"type:varchar(255);not null;uniqueIndex"`
	Company     string      `gorm:"type:varchar(255)"`
	Email       string      `gorm:"type:varchar(255);not null;uniqueIndex"`
	ClientURL   string      `gorm:"column:client_url;type:varchar(255)"`
	FirstName   string      `gorm:"column:f_name;type:varchar(255)"`
	LastName    string      `gorm:"column:l_name;type:varchar(255)"`
	MailAddress string      `gorm:"type:varchar(255)"`
	PhoneNumber string      `gorm:"type:varchar(20)"`
	Verified    bool        `gorm:"not null;default:false"`
	Logo        *ImageModel `gorm:"polymorphic:Entity;polymorphicValue:Seller"`
}

// TableName returns the table name for GORM
func (SellerModel) TableName() string {
	return "sellers"
}

// ToDomain converts the persistence model to a domain Seller entity.
func (m *SellerModel) ToDomain() *identity.Seller {
	s := &identity.Seller{
		BaseEntity:  m.BaseModel.ToDomain(),
		UserID:      m.UserID,
		Slug:        m.Slug,
		Company:     m.Company,
		Email:       m.Email,
		ClientURL:   m.ClientURL,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		MailAddress: m.MailAddress,
		PhoneNumber: m.PhoneNumber,
		Verified:    m.Verified,
	}
	if m.Logo != nil {
		logo := m.Logo.ToDomain()
		s.Logo = &logo
	}
	return s
}

// FromDomain populates the persistence model from a domain Seller entity.
// The logo is written through the image repository, not here.
func (m *SellerModel) FromDomain(s *identity.Seller) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.UserID = s.UserID
	m.Slug = s.Slug
	m.Company = s.Company
	m.Email = s.Email
	m.ClientURL = s.ClientURL
	m.FirstName = s.FirstName
	m.LastName = s.LastName
	m.MailAddress = s.MailAddress
	m.PhoneNumber = s.PhoneNumber
	m.Verified = s.Verified
}

// SellerModelFromDomain creates a new persistence model from a domain Seller entity.
func SellerModelFromDomain(s *identity.Seller) *SellerModel {
	m := &SellerModel{}
	m.FromDomain(s)
	return m
}

// PasswordResetModel stores forgot-password tokens. Email is not a foreign key.
type PasswordResetModel struct {
	Email     string    `gorm:"type:varchar(255);not null;index"`
	Token     string    `gorm:"type:varchar(255);primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PasswordResetModel) TableName() string {
	return "password_resets"
}

// ToDomain converts the persistence model to a domain PasswordReset.
func (m *PasswordResetModel) ToDomain() *identity.PasswordReset {
	return &identity.PasswordReset{Email: m.Email, Token: m.Token, CreatedAt: m.CreatedAt}
}

// PasswordResetModelFromDomain creates a new persistence model from a domain PasswordReset.
func PasswordResetModelFromDomain(r *identity.PasswordReset) *PasswordResetModel {
	return &PasswordResetModel{Email: r.Email, Token: r.Token, CreatedAt: r.CreatedAt}
}
