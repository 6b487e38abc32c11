package items

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

type Repo interface {
	List(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, it domain.Item) (domain.Item, error)
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, name, description string) (domain.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Item{}, domain.ErrMissingField("name")
	}
	return s.repo.Create(ctx, domain.Item{
		Name:        name,
		Description: strings.TrimSpace(description),
	})
}
