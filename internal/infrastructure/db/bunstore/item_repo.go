package bunstore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

type ItemRepo struct {
	db bun.IDB
}

func NewItemRepo(db bun.IDB) *ItemRepo {
	return &ItemRepo{db: db}
}

func (r *ItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	var models []itemModel
	err := r.db.NewSelect().
		Model(&models).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil && !isNoRows(err) {
		return nil, domain.ErrDBUnavailable(err)
	}

	out := make([]domain.Item, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

func (r *ItemRepo) Create(ctx context.Context, it domain.Item) (domain.Item, error) {
	now := time.Now().UTC()
	m := &itemModel{
		Name:        it.Name,
		Description: it.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.db.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return domain.Item{}, domain.ErrDBUnavailable(err)
	}
	return m.toDomain(), nil
}
