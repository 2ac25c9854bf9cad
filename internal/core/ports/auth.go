package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hazelmere/property-api/internal/core/domain/auth"
)

// ErrInvalidCredentials is returned by Login when the email is unknown or the
// password does not match. Handlers map it to 401 without detail.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository reads account rows.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*auth.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

// AuthService verifies credentials and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error)
}
