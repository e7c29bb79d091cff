package lab

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	labs Repository
}

func NewService(labs Repository) *Service {
	return &Service{labs: labs}
}

func (s *Service) validate(l *Lab) error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if l.SLADays != nil && *l.SLADays < 1 {
		return fmt.Errorf("sla_days must be at least 1")
	}
	return nil
}

func (s *Service) CreateLab(ctx context.Context, l *Lab) error {
	if err := s.validate(l); err != nil {
		return err
	}
	return s.labs.Create(ctx, l)
}

func (s *Service) GetLab(ctx context.Context, id uuid.UUID) (*Lab, error) {
	return s.labs.GetByID(ctx, id)
}

func (s *Service) UpdateLab(ctx context.Context, l *Lab) error {
	if err := s.validate(l); err != nil {
		return err
	}
	return s.labs.Update(ctx, l)
}

func (s *Service) ListLabs(ctx context.Context, limit, offset int) ([]*Lab, int, error) {
	return s.labs.List(ctx, limit, offset)
}
