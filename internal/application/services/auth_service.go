package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/hazelmere/property-api/configs"
	"github.com/hazelmere/property-api/internal/core/domain/auth"
	"github.com/hazelmere/property-api/internal/core/ports"
)

// AuthService verifies account credentials and issues signed session tokens.
type AuthService struct {
	users  ports.UserRepository
	cfg    *configs.JWTConfig
	logger *logrus.Logger
}

func NewAuthService(users ports.UserRepository, cfg *configs.JWTConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{users: users, cfg: cfg, logger: logger}
}

// Login checks the password against the stored bcrypt hash and returns a
// session. Unknown email and wrong password both map to
// ports.ErrInvalidCredentials so the response does not reveal which failed.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": req.Email}).Debug("auth: login for unknown email")
		}
		return nil, ports.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Debug("auth: password mismatch")
		}
		return nil, ports.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := &auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("auth: session issued")
	}
	return &auth.Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.cfg.SessionTTL.Seconds()),
		UserID:      u.ID,
		Email:       u.Email,
	}, nil
}
