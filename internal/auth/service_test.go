package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sales_crm_backend/internal/users"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

type fakeUsers struct {
	byID map[uuid.UUID]users.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[uuid.UUID]users.User)}
}

func (f *fakeUsers) add(email, password, role, status string) users.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := users.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
		Status:       status,
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, input users.CreateUserInput) (users.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, input.Email) {
			return users.User{}, apperr.Conflict("email already registered")
		}
	}
	return f.add(input.Email, input.Password, input.Role, users.StatusActive), nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return users.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (users.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return users.User{}, apperr.NotFound("user not found")
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newTestService(store *fakeUsers) *Service {
	return NewService(store, testConfig{}, logger.New("test"))
}

func TestLoginIssuesTokenWithIdentityClaims(t *testing.T) {
	store := newFakeUsers()
	user := store.add("rep@example.com", "correct horse", users.RoleSales, users.StatusActive)
	svc := newTestService(store)

	pair, err := svc.Login(context.Background(), Credentials{
		Email:    "rep@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID.String() {
		t.Errorf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["role"] != users.RoleSales {
		t.Errorf("role = %v, want Sales", claims["role"])
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := newFakeUsers()
	store.add("rep@example.com", "correct horse", users.RoleSales, users.StatusActive)
	svc := newTestService(store)

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "rep@example.com",
		Password: "battery staple",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("error kind = %v, want unauthorized", apperr.GetKind(err))
	}
}

func TestLoginRejectsUnknownEmailWithSameError(t *testing.T) {
	svc := newTestService(newFakeUsers())

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "ghost@example.com",
		Password: "anything",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("error kind = %v, want unauthorized", apperr.GetKind(err))
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	store := newFakeUsers()
	store.add("gone@example.com", "correct horse", users.RoleSales, users.StatusDisabled)
	svc := newTestService(store)

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "gone@example.com",
		Password: "correct horse",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("error kind = %v, want unauthorized", apperr.GetKind(err))
	}
}

func TestRegisterReturnsUsableToken(t *testing.T) {
	store := newFakeUsers()
	svc := newTestService(store)

	pair, err := svc.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "long enough pw",
		FullName: "New Rep",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if pair.AccessToken == "" {
		t.Error("no access token issued")
	}
	if pair.User.Role != users.RoleSales {
		t.Errorf("role = %q, want Sales for self-registration", pair.User.Role)
	}
}
