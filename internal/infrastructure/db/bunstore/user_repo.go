package bunstore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

type UserRepo struct {
	db  bun.IDB
	now func() time.Time
}

func NewUserRepo(db bun.IDB) *UserRepo {
	return &UserRepo{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ok, err := r.db.NewSelect().
		Model((*userModel)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return ok, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	var m userModel
	err := r.db.NewSelect().
		Model(&m).
		Where(where, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return m.toDomain(), nil
}

// List returns users newest first.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var models []userModel
	err := r.db.NewSelect().
		Model(&models).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil && !isNoRows(err) {
		return nil, domain.ErrDBUnavailable(err)
	}

	out := make([]domain.User, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	now := r.now()
	m := &userModel{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.NewInsert().
		Model(m).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return m.toDomain(), nil
}

func (r *UserRepo) Update(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error) {
	q := r.db.NewUpdate().
		Model((*userModel)(nil)).
		Set("updated_at = ?", r.now()).
		Where("id = ?", id)

	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.PasswordHash != nil {
		q = q.Set("password_hash = ?", *patch.PasswordHash)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.User{}, domain.ErrUserNotFound()
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*userModel)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}
