package user

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/fammo-app/fammo/internal/shared/authorization"
)

// Password bounds. bcrypt ignores everything past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// User is an account. Accounts start inactive and are activated through a
// one-time emailed token.
type User struct {
	id                  uint
	email               string
	passwordHash        string
	role                authorization.UserRole
	isActive            bool
	activationTokenHash string
	activationExpiresAt *time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

func NewUser(email, passwordHash string) (*User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrInvalidEmail
	}
	now := time.Now().UTC()
	return &User{
		email:        email,
		passwordHash: passwordHash,
		role:         authorization.RoleUser,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type State struct {
	ID                  uint
	Email               string
	PasswordHash        string
	Role                authorization.UserRole
	IsActive            bool
	ActivationTokenHash string
	ActivationExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func ReconstructUser(s State) *User {
	return &User{
		id:                  s.ID,
		email:               s.Email,
		passwordHash:        s.PasswordHash,
		role:                authorization.ParseUserRole(string(s.Role)),
		isActive:            s.IsActive,
		activationTokenHash: s.ActivationTokenHash,
		activationExpiresAt: s.ActivationExpiresAt,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
	}
}

func (u *User) ID() uint                         { return u.id }
func (u *User) Email() string                    { return u.email }
func (u *User) PasswordHash() string             { return u.passwordHash }
func (u *User) Role() authorization.UserRole     { return u.role }
func (u *User) IsActive() bool                   { return u.isActive }
func (u *User) ActivationTokenHash() string      { return u.activationTokenHash }
func (u *User) ActivationExpiresAt() *time.Time  { return u.activationExpiresAt }
func (u *User) CreatedAt() time.Time             { return u.createdAt }
func (u *User) UpdatedAt() time.Time             { return u.updatedAt }
func (u *User) IsPrivileged() bool               { return u.role.IsPrivileged() }

func (u *User) SetID(id uint) {
	u.id = id
}

func (u *User) SetRole(role authorization.UserRole) {
	u.role = role
	u.updatedAt = time.Now().UTC()
}

func (u *User) IssueActivationToken(hash string, expiresAt time.Time) {
	exp := expiresAt.UTC()
	u.activationTokenHash = hash
	u.activationExpiresAt = &exp
	u.updatedAt = time.Now().UTC()
}

// Activate consumes the activation token.
func (u *User) Activate(tokenHash string, now time.Time) error {
	if u.isActive {
		return ErrAlreadyActive
	}
	if u.activationTokenHash == "" || subtle.ConstantTimeCompare([]byte(tokenHash), []byte(u.activationTokenHash)) != 1 {
		return ErrInvalidActivationToken
	}
	if u.activationExpiresAt == nil || now.After(*u.activationExpiresAt) {
		return ErrActivationExpired
	}
	u.isActive = true
	u.activationTokenHash = ""
	u.activationExpiresAt = nil
	u.updatedAt = now.UTC()
	return nil
}

// ActivateWithoutToken activates accounts whose email is verified by another
// flow, such as clinic owners confirming through the clinic email.
func (u *User) ActivateWithoutToken(now time.Time) {
	u.isActive = true
	u.activationTokenHash = ""
	u.activationExpiresAt = nil
	u.updatedAt = now.UTC()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword checks the length bounds shared by every sign-up path.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrPasswordTooShort, MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes long", ErrPasswordTooLong, MaxPasswordBytes)
	}
	return nil
}

// PasswordMessage is the user-facing text for a ValidatePassword failure.
func PasswordMessage(err error) string {
	switch {
	case errors.Is(err, ErrPasswordTooLong):
		return fmt.Sprintf("Password must be at most %d bytes long", MaxPasswordBytes)
	default:
		return fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
}
