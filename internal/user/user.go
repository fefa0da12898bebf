package user

import (
	"context"
	"time"
)

// User is a directory entry. PasswordHash never leaves the server.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	RegisterNumber *string   `json:"registerNumber,omitempty"`
	Branch         *string   `json:"branch,omitempty"`
	Department     *string   `json:"department,omitempty"`
	Year           *string   `json:"year,omitempty"`
	Section        *string   `json:"section,omitempty"`
	MobileNumber   *string   `json:"mobileNumber,omitempty"`
	Designation    *string   `json:"designation,omitempty"`
	OfficeRoom     *string   `json:"officeRoom,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RefreshToken is a stored refresh token for rotation checks.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
}

// Repository is the persistence contract for the user directory.
type Repository interface {
	Insert(ctx context.Context, usr User) (User, error)
	// Get returns apperr.NotFound when no user exists with the id.
	Get(ctx context.Context, id string) (User, error)
	// GetByEmail returns apperr.NotFound when the email is unknown.
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error

	SaveRefreshToken(ctx context.Context, token RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}
