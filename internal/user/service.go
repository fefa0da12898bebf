package user

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"campusevents/internal/apperr"
	"campusevents/internal/auth"
)

// Service handles registration, authentication and directory lookups.
type Service struct {
	repo Repository
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Profile  Profile
}

// Profile holds the optional directory fields.
type Profile struct {
	RegisterNumber *string
	Branch         *string
	Department     *string
	Year           *string
	Section        *string
	MobileNumber   *string
	Designation    *string
	OfficeRoom     *string
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return User{}, apperr.BadRequest("name, email and password are required")
	}
	switch in.Role {
	case auth.RoleStudent, auth.RoleFaculty, auth.RoleAdmin:
	default:
		return User{}, apperr.BadRequest("invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Insert(ctx, User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           in.Role,
		RegisterNumber: in.Profile.RegisterNumber,
		Branch:         in.Profile.Branch,
		Department:     in.Profile.Department,
		Year:           in.Profile.Year,
		Section:        in.Profile.Section,
		MobileNumber:   in.Profile.MobileNumber,
		Designation:    in.Profile.Designation,
		OfficeRoom:     in.Profile.OfficeRoom,
	})
}

// Authenticate checks credentials and returns the matching user.
// The same error is returned for unknown email and wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	usr, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return User{}, apperr.BadRequest("invalid email or password")
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return User{}, apperr.BadRequest("invalid email or password")
	}
	return usr, nil
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SaveRefreshToken stores an issued refresh token.
func (s *Service) SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	return s.repo.SaveRefreshToken(ctx, RefreshToken{Token: token, UserID: userID, ExpiresAt: expiresAt})
}

// RotateRefreshToken validates and revokes a refresh token, returning its
// owner so a new pair can be issued.
func (s *Service) RotateRefreshToken(ctx context.Context, token string) (User, error) {
	rt, err := s.repo.GetRefreshToken(ctx, token)
	if err != nil {
		if apperr.IsNotFound(err) {
			return User{}, apperr.BadRequest("invalid refresh token")
		}
		return User{}, err
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return User{}, apperr.BadRequest("refresh token expired or revoked")
	}
	if err := s.repo.RevokeRefreshToken(ctx, token); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, rt.UserID)
}
