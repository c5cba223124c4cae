// Package auth provides registration, login and token issuing.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sales_crm_backend/internal/users"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"
)

// UserSource is the slice of the users service the auth flow needs.
type UserSource interface {
	Create(ctx context.Context, input users.CreateUserInput) (users.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (users.User, error)
	GetByEmail(ctx context.Context, email string) (users.User, error)
}

type Service struct {
	users UserSource
	cfg   config.AuthServiceConfig
	log   *logger.Logger
	now   func() time.Time
}

func NewService(userSource UserSource, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{users: userSource, cfg: cfg, log: log, now: time.Now}
}

type Credentials struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type TokenPair struct {
	AccessToken string
	ExpiresAt   time.Time
	User        users.User
}

// Register creates a self-service account with the Sales role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (TokenPair, error) {
	user, err := s.users.Create(ctx, users.CreateUserInput{
		Email:    input.Email,
		FullName: input.FullName,
		Role:     users.RoleSales,
		Password: input.Password,
	})
	if err != nil {
		return TokenPair{}, err
	}
	s.log.AuthEvent("register", user.Email, true, "")
	return s.issue(user)
}

// Login verifies credentials and issues an access token. Disabled accounts
// are rejected with the same message as bad credentials.
func (s *Service) Login(ctx context.Context, creds Credentials) (TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			s.log.AuthEvent("login", creds.Email, false, "unknown email")
			return TokenPair{}, apperr.Unauthorized("invalid credentials")
		}
		return TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.log.AuthEvent("login", creds.Email, false, "wrong password")
		return TokenPair{}, apperr.Unauthorized("invalid credentials")
	}
	if user.Status != users.StatusActive {
		s.log.AuthEvent("login", creds.Email, false, "account disabled")
		return TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	s.log.AuthEvent("login", creds.Email, true, "")
	return s.issue(user)
}

// Me returns the account behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (users.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) issue(user users.User) (TokenPair, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.GetAccessTokenTTL())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"name": user.FullName,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.KindInternal, "could not sign token", err)
	}

	return TokenPair{AccessToken: signed, ExpiresAt: expiresAt, User: user}, nil
}
