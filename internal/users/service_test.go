package users

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sales_crm_backend/internal/events"
)

type fakeStore struct {
	users map[uuid.UUID]User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uuid.UUID]User)}
}

func (f *fakeStore) Create(_ context.Context, params CreateParams) (User, error) {
	for _, u := range f.users {
		if u.Email == params.Email {
			return User{}, ErrEmailTaken
		}
	}
	u := User{
		ID:              uuid.New(),
		Email:           params.Email,
		PasswordHash:    params.PasswordHash,
		FullName:        params.FullName,
		Role:            params.Role,
		Status:          params.Status,
		AssignedRegions: params.AssignedRegions,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeStore) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params UpdateParams) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if params.Role != nil {
		u.Role = *params.Role
	}
	if params.Status != nil {
		u.Status = *params.Status
	}
	f.users[id] = u
	return u, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func TestCreateGeneratesTemporaryPassword(t *testing.T) {
	store := newFakeStore()
	bus := &recordingBus{}
	svc := NewService(store, bus)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "Sales.Rep@Example.com",
		FullName: "Jordan Reyes",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Email != "sales.rep@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.Role != RoleSales {
		t.Errorf("role = %q, want default Sales", user.Role)
	}
	if user.Status != StatusActive {
		t.Errorf("status = %q, want Active", user.Status)
	}

	if len(bus.published) != 1 {
		t.Fatalf("got %d events, want 1", len(bus.published))
	}
	created, ok := bus.published[0].(events.UserCreated)
	if !ok {
		t.Fatalf("event type = %T, want UserCreated", bus.published[0])
	}
	if created.TemporaryPassword == "" {
		t.Error("temporary password missing from event")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(created.TemporaryPassword)); err != nil {
		t.Error("stored hash does not match the temporary password")
	}
}

func TestCreateWithExplicitPasswordSendsNoEmail(t *testing.T) {
	store := newFakeStore()
	bus := &recordingBus{}
	svc := NewService(store, bus)

	if _, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "admin@example.com",
		FullName: "Site Admin",
		Role:     RoleAdmin,
		Password: "chosen-by-user",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(bus.published) != 0 {
		t.Errorf("got %d events, want none for a chosen password", len(bus.published))
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &recordingBus{})

	input := CreateUserInput{Email: "dup@example.com", FullName: "First In"}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), input); err == nil {
		t.Error("expected conflict for duplicate email")
	}
}

func TestUpdateRejectsUnknownRole(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &recordingBus{})

	user, _ := svc.Create(context.Background(), CreateUserInput{
		Email:    "rep@example.com",
		FullName: "Rep",
	})

	bad := "Overlord"
	if _, err := svc.Update(context.Background(), user.ID, UpdateUserInput{Role: &bad}); err == nil {
		t.Error("expected error for unknown role")
	}
}
