package users

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/events"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

type Service struct {
	repo   Repo
	hasher PasswordHasher
	pub    events.Publisher
	audit  func(ctx context.Context, action string, fields map[string]string)
}

func NewService(repo Repo, hasher PasswordHasher) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		pub:    events.Noop{},
		audit:  func(context.Context, string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(ctx context.Context, action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithPublisher(pub events.Publisher) *Service {
	if pub != nil {
		s.pub = pub
	}
	return s
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateInput is a partial update; nil fields are left as they are.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// List returns all users, newest first.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, domain.ErrInvalidField("id", "must be a positive integer")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)

	switch {
	case name == "":
		return domain.User{}, domain.ErrMissingField("name")
	case email == "":
		return domain.User{}, domain.ErrMissingField("email")
	case in.Password == "":
		return domain.User{}, domain.ErrMissingField("password")
	}
	if err := domain.CheckPasswordLength(in.Password); err != nil {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.AsHashFailed(err)
	}

	u, err := s.repo.Create(ctx, domain.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		return domain.User{}, err
	}

	s.audit(ctx, "users.create", map[string]string{"user_id": idStr(u.ID), "email": u.Email})
	events.Emit(ctx, s.pub, events.UserEvent{Type: events.UserCreated, UserID: u.ID, Email: u.Email})
	return u, nil
}

// Update applies a partial update. A new password is always rehashed.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, domain.ErrInvalidField("id", "must be a positive integer")
	}

	var patch domain.UserPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.User{}, domain.ErrInvalidField("name", "must not be empty")
		}
		patch.Name = &name
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if email == "" {
			return domain.User{}, domain.ErrInvalidField("email", "must not be empty")
		}
		patch.Email = &email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return domain.User{}, domain.ErrInvalidField("password", "must not be empty")
		}
		if err := domain.CheckPasswordLength(*in.Password); err != nil {
			return domain.User{}, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return domain.User{}, domain.AsHashFailed(err)
		}
		patch.PasswordHash = &hash
	}

	if patch.Empty() {
		return s.repo.GetByID(ctx, id)
	}

	u, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.User{}, err
	}

	fields := map[string]string{"user_id": idStr(u.ID)}
	if patch.PasswordHash != nil {
		fields["password_changed"] = "true"
	}
	s.audit(ctx, "users.update", fields)
	events.Emit(ctx, s.pub, events.UserEvent{Type: events.UserUpdated, UserID: u.ID, Email: u.Email})
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidField("id", "must be a positive integer")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, "users.delete", map[string]string{"user_id": idStr(id)})
	events.Emit(ctx, s.pub, events.UserEvent{Type: events.UserDeleted, UserID: id})
	return nil
}

func idStr(id int64) string { return strconv.FormatInt(id, 10) }
