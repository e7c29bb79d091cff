package lab

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockLabRepo struct {
	store map[uuid.UUID]*Lab
}

func newMockLabRepo() *mockLabRepo {
	return &mockLabRepo{store: make(map[uuid.UUID]*Lab)}
}

func (m *mockLabRepo) Create(_ context.Context, l *Lab) error {
	l.ID = uuid.New()
	m.store[l.ID] = l
	return nil
}

func (m *mockLabRepo) GetByID(_ context.Context, id uuid.UUID) (*Lab, error) {
	l, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return l, nil
}

func (m *mockLabRepo) Update(_ context.Context, l *Lab) error {
	if _, ok := m.store[l.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.store[l.ID] = l
	return nil
}

func (m *mockLabRepo) List(_ context.Context, limit, offset int) ([]*Lab, int, error) {
	var r []*Lab
	for _, l := range m.store {
		r = append(r, l)
	}
	return r, len(r), nil
}

func TestCreateLab(t *testing.T) {
	svc := NewService(newMockLabRepo())
	sla := 7
	l := &Lab{Name: "CytoLab", SLADays: &sla}
	if err := svc.CreateLab(context.Background(), l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.ID == uuid.Nil {
		t.Error("expected generated id")
	}
}

func TestCreateLab_Invalid(t *testing.T) {
	svc := NewService(newMockLabRepo())
	if err := svc.CreateLab(context.Background(), &Lab{Name: " "}); err == nil {
		t.Error("expected error for blank name")
	}
	zero := 0
	if err := svc.CreateLab(context.Background(), &Lab{Name: "L", SLADays: &zero}); err == nil {
		t.Error("expected error for non-positive sla_days")
	}
}

func TestCreateLab_NoSLAIsFine(t *testing.T) {
	svc := NewService(newMockLabRepo())
	if err := svc.CreateLab(context.Background(), &Lab{Name: "NoSLA Lab"}); err != nil {
		t.Fatalf("labs without an SLA must be accepted: %v", err)
	}
}
