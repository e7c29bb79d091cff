package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/citotrack/citotrack/internal/platform/auth"
)

// -- Mock Repository --

type mockUserRepo struct {
	store map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	m.store[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.store {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockUserRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.store[u.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.store[u.ID] = u
	return nil
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var r []*User
	for _, u := range m.store {
		r = append(r, u)
	}
	return r, len(r), nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role auth.Role, limit, offset int) ([]*User, int, error) {
	var r []*User
	for _, u := range m.store {
		if u.Role == role && u.Active {
			r = append(r, u)
		}
	}
	return r, len(r), nil
}

// -- Tests --

func TestCreateUser_Valid(t *testing.T) {
	svc := NewService(newMockUserRepo())
	u := &User{Name: "Dr. Carla", Email: "carla@clinic.test", Role: auth.RoleDoctor}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.Active {
		t.Error("new users should start active")
	}
	if u.ID == uuid.Nil {
		t.Error("expected generated id")
	}
}

func TestCreateUser_Invalid(t *testing.T) {
	svc := NewService(newMockUserRepo())
	cases := []struct {
		name string
		u    User
	}{
		{"missing name", User{Email: "a@b.test", Role: auth.RoleSecretary}},
		{"missing email", User{Name: "Ana", Role: auth.RoleSecretary}},
		{"bad role", User{Name: "Ana", Email: "a@b.test", Role: "manager"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.CreateUser(context.Background(), &tc.u); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDeactivateUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	u := &User{Name: "Ana", Email: "ana@clinic.test", Role: auth.RoleSecretary}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeactivateUser(context.Background(), u.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, _ := repo.GetByID(context.Background(), u.ID)
	if got.Active {
		t.Error("expected user to be inactive")
	}
}

func TestListDoctors_OnlyActiveDoctors(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	must := func(u *User) {
		if err := svc.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	doc := &User{Name: "Dr. Carla", Email: "c@x.test", Role: auth.RoleDoctor}
	must(doc)
	must(&User{Name: "Ana", Email: "a@x.test", Role: auth.RoleSecretary})
	retired := &User{Name: "Dr. Old", Email: "o@x.test", Role: auth.RoleDoctor}
	must(retired)
	if err := svc.DeactivateUser(context.Background(), retired.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	docs, total, err := svc.ListDoctors(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(docs) != 1 || docs[0].ID != doc.ID {
		t.Errorf("expected only the active doctor, got %d", total)
	}
}
