// Package identity models marketplace accounts, sellers and password resets.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/landmarket/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role distinguishes regular accounts from administrators
type Role int

const (
	RoleUser  Role = 0
	RoleAdmin Role = 1
)

// Password cost for bcrypt
const bcryptCost = bcrypt.DefaultCost

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents an account in the system
type User struct {
	shared.BaseEntity
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	LastLoginAt  *time.Time
}

// NewUser creates a regular user with a hashed password
func NewUser(email, firstName, lastName, password string) (*User, error) {
	u := &User{BaseEntity: shared.NewBaseEntity(), Role: RoleUser}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.SetName(firstName, lastName); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NewSocialUser creates a user from a social profile. The account gets a
// random password that nobody knows; login goes through the provider.
func NewSocialUser(email, firstName, lastName string) (*User, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return nil, shared.Storage(err)
	}
	u := &User{BaseEntity: shared.NewBaseEntity(), Role: RoleUser}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.SetName(firstName, lastName); err != nil {
		return nil, err
	}
	hash, err := hashPassword(hex.EncodeToString(buf))
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	return u, nil
}

// SetEmail sets a normalized email
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	u.Email = email
	u.Touch()
	return nil
}

// SetName sets first and last name; each is optional but 3..255 chars when present
func (u *User) SetName(firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if err := validateName("fname", firstName); err != nil {
		return err
	}
	if err := validateName("lname", lastName); err != nil {
		return err
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Touch()
	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword checks a plain password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManage reports whether u may modify the account with the given id
func (u *User) CanManage(userID uint64) bool {
	return u.IsAdmin() || u.ID == userID
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(field, name string) error {
	if name == "" {
		return nil
	}
	if len(name) < 3 {
		return shared.Validation(field + " must be at least 3 characters")
	}
	if len(name) > 255 {
		return shared.Validation(field + " cannot exceed 255 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.Validation("password cannot be empty")
	}
	if len(password) < 6 {
		return shared.Validation("password must be at least 6 characters")
	}
	if len(password) > 255 {
		return shared.Validation("password cannot exceed 255 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.Validation("email cannot be empty")
	}
	if len(email) > 255 {
		return shared.Validation("email cannot exceed 255 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.Validation("invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
