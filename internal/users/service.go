package users

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/apperr"
)

// Role and status values for user accounts.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleSales   = "Sales"

	StatusActive   = "Active"
	StatusDisabled = "Disabled"
)

func validRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleSales:
		return true
	}
	return false
}

func validStatus(status string) bool {
	return status == StatusActive || status == StatusDisabled
}

type Store interface {
	Create(ctx context.Context, params CreateParams) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
	bus   events.Bus
}

func NewService(store Store, bus events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

type CreateUserInput struct {
	Email           string
	FullName        string
	Role            string
	AssignedRegions []string
	Password        string
}

// Create provisions a user account. When no password is supplied a temporary
// one is generated and sent by the welcome email workflow; the password never
// appears in any response.
func (s *Service) Create(ctx context.Context, input CreateUserInput) (User, error) {
	if input.Role == "" {
		input.Role = RoleSales
	}
	if !validRole(input.Role) {
		return User{}, apperr.Validation("invalid role")
	}

	password := input.Password
	temporary := password == ""
	if temporary {
		generated, err := generatePassword()
		if err != nil {
			return User{}, apperr.Wrap(apperr.KindInternal, "could not generate password", err)
		}
		password = generated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperr.Wrap(apperr.KindInternal, "could not hash password", err)
	}

	user, err := s.store.Create(ctx, CreateParams{
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:    string(hash),
		FullName:        input.FullName,
		Role:            input.Role,
		Status:          StatusActive,
		AssignedRegions: input.AssignedRegions,
	})
	if err != nil {
		return User{}, storageErr("users.create", err)
	}

	if temporary {
		s.bus.Publish(ctx, events.UserCreated{
			BaseEvent:         events.NewBaseEvent(),
			UserID:            user.ID,
			Email:             user.Email,
			FullName:          user.FullName,
			TemporaryPassword: password,
		})
	}
	return user, nil
}

// generatePassword returns a random url-safe temporary password.
func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return User{}, storageErr("users.get", err)
	}
	return user, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return User{}, storageErr("users.get_by_email", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, storageErr("users.list", err)
	}
	return users, nil
}

type UpdateUserInput struct {
	FullName        *string
	Role            *string
	Status          *string
	AssignedRegions *[]string
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (User, error) {
	if input.Role != nil && !validRole(*input.Role) {
		return User{}, apperr.Validation("invalid role")
	}
	if input.Status != nil && !validStatus(*input.Status) {
		return User{}, apperr.Validation("invalid status")
	}

	user, err := s.store.Update(ctx, id, UpdateParams{
		FullName:        input.FullName,
		Role:            input.Role,
		Status:          input.Status,
		AssignedRegions: input.AssignedRegions,
	})
	if err != nil {
		return User{}, storageErr("users.update", err)
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("users.delete", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("user not found")
	case errors.Is(err, ErrEmailTaken):
		return apperr.Conflict("email already registered")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("user storage unavailable", err)
	e.Op = op
	return e
}
