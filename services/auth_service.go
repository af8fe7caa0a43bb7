package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminRole       = "admin"
	adminSessionTTL = 12 * time.Hour
)

type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	Login(ctx context.Context, password string) (*AdminSession, error)
}

type authService struct {
	passwordHash []byte
	jwtSecret    []byte
	logger       *slog.Logger
	now          func() time.Time
}

func NewAuthService(passwordHash string, jwtSecret []byte, logger *slog.Logger) AuthService {
	return &authService{
		passwordHash: []byte(passwordHash),
		jwtSecret:    jwtSecret,
		logger:       logger,
		now:          time.Now,
	}
}

// Login сверяет общий пароль администратора и выдаёт JWT.
func (s *authService) Login(ctx context.Context, password string) (*AdminSession, error) {
	if password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.WarnContext(ctx, "admin login rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	issued := s.now()
	expires := issued.Add(adminSessionTTL)
	claims := jwt.MapClaims{
		"sub":  AdminRole,
		"role": AdminRole,
		"iat":  issued.Unix(),
		"exp":  expires.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.InfoContext(ctx, "admin logged in", slog.Time("expires_at", expires))
	return &AdminSession{Token: token, ExpiresAt: expires}, nil
}
