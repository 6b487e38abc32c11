package auth

import (
	"context"
	"strconv"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/metrics"
)

// Login authenticates a user and issues a token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	email = domain.NormalizeEmail(email)

	switch {
	case email == "":
		return Result{}, domain.ErrMissingField("email")
	case password == "":
		return Result{}, domain.ErrMissingField("password")
	}

	fail := func(reason string, err error) (Result, error) {
		status := "invalid_credentials"
		if domain.KindOf(err) == domain.KindInternal {
			status = "error"
		}
		metrics.LoginAttemptsTotal.WithLabelValues(status).Inc()
		s.audit(ctx, "auth.login", map[string]string{
			"email":  email,
			"result": "failed",
			"reason": reason,
		})
		return Result{}, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			s.burnCompare(password)
			return fail("unknown_email", domain.ErrInvalidCredentials())
		}
		return fail("store_error", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return fail("bad_password", domain.ErrInvalidCredentials())
	}

	tok, err := s.issueToken(u)
	if err != nil {
		return fail("token_error", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.audit(ctx, "auth.login", map[string]string{
		"email":   email,
		"user_id": strconv.FormatInt(u.ID, 10),
		"result":  "success",
	})

	return Result{User: u, Token: tok}, nil
}
