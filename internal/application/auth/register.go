package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/events"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/metrics"
)

func (s *Service) Register(ctx context.Context, name, email, password string) (Result, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)

	audit := func(result string, err error, userID int64) {
		fields := map[string]string{"email": email, "result": result}
		if userID > 0 {
			fields["user_id"] = strconv.FormatInt(userID, 10)
		}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		s.audit(ctx, "auth.register", fields)
	}

	switch {
	case name == "":
		return Result{}, domain.ErrMissingField("name")
	case email == "":
		return Result{}, domain.ErrMissingField("email")
	case password == "":
		return Result{}, domain.ErrMissingField("password")
	}
	if err := domain.CheckPasswordLength(password); err != nil {
		return Result{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		audit("error", err, 0)
		return Result{}, err
	}
	if exists {
		err := domain.ErrEmailAlreadyExists()
		audit("rejected", err, 0)
		return Result{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		err = domain.AsHashFailed(err)
		audit("error", err, 0)
		return Result{}, err
	}

	// The store's unique constraint settles concurrent registrations and
	// surfaces as email_already_exists.
	created, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		audit("error", err, 0)
		return Result{}, err
	}

	tok, err := s.issueToken(created)
	if err != nil {
		audit("error", err, created.ID)
		return Result{}, err
	}

	metrics.RegistrationsTotal.Inc()
	audit("success", nil, created.ID)
	events.Emit(ctx, s.pub, events.UserEvent{
		Type:   events.UserRegistered,
		UserID: created.ID,
		Email:  created.Email,
	})

	return Result{User: created, Token: tok}, nil
}
