package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/metrics"
)

// UserStore is the full user persistence surface the cache decorates.
type UserStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

const DefaultUserCacheTTL = 5 * time.Minute

// CachedUserRepo decorates a UserStore with a Redis read-through cache for GetByID.
// - Read path: Redis -> DB fallback -> Redis set
// - Write path (update/delete): DB -> Redis del (best effort)
// Cached entries never carry the password hash, so GetByID results served
// from Redis have an empty PasswordHash. Credential checks go through GetByEmail.
type CachedUserRepo struct {
	inner   UserStore
	rdb     *goredis.Client
	ttl     time.Duration
	keyPref string
}

func NewCachedUserRepo(inner UserStore, client *Client, ttl time.Duration) *CachedUserRepo {
	var rdb *goredis.Client
	if client != nil {
		rdb = client.rdb
	}
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	return &CachedUserRepo{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		keyPref: "user:",
	}
}

type cachedUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *CachedUserRepo) key(id int64) string {
	return c.keyPref + strconv.FormatInt(id, 10)
}

func (c *CachedUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	// 1) Try Redis
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
		switch {
		case err == nil:
			var cu cachedUser
			if jerr := json.Unmarshal(raw, &cu); jerr == nil {
				metrics.UserCacheLookupsTotal.WithLabelValues("hit").Inc()
				return domain.User{
					ID:        cu.ID,
					Name:      cu.Name,
					Email:     cu.Email,
					CreatedAt: cu.CreatedAt,
					UpdatedAt: cu.UpdatedAt,
				}, nil
			}
			// corrupt entry -> fall back to DB
			metrics.UserCacheLookupsTotal.WithLabelValues("error").Inc()
		case errors.Is(err, goredis.Nil):
			metrics.UserCacheLookupsTotal.WithLabelValues("miss").Inc()
		default:
			// redis error -> fall back to DB (do NOT fail the request)
			metrics.UserCacheLookupsTotal.WithLabelValues("error").Inc()
			logger.WithCtx(ctx).Debug().Err(err).Msg("user cache read failed")
		}
	}

	// 2) DB source of truth
	u, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	// 3) Best-effort cache fill
	c.store(ctx, u)
	return u, nil
}

func (c *CachedUserRepo) Update(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error) {
	u, err := c.inner.Update(ctx, id, patch)
	if err != nil {
		return domain.User{}, err
	}
	c.invalidate(ctx, id)
	return u, nil
}

func (c *CachedUserRepo) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedUserRepo) store(ctx context.Context, u domain.User) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(u.ID), b, c.ttl).Err()
}

func (c *CachedUserRepo) invalidate(ctx context.Context, id int64) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key(id)).Err(); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Int64("user_id", id).Msg("user cache invalidation failed")
	}
}

/*
Below: delegate the uncached methods to inner.
*/

func (c *CachedUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return c.inner.ExistsByEmail(ctx, email)
}
func (c *CachedUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return c.inner.GetByEmail(ctx, email)
}
func (c *CachedUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return c.inner.List(ctx)
}
func (c *CachedUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return c.inner.Create(ctx, u)
}
