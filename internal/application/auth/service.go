package auth

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/events"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

const DefaultTokenTTL = 24 * time.Hour

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	tokens TokenCodec
	pub    events.Publisher

	tokenTTL time.Duration
	audit    func(ctx context.Context, action string, fields map[string]string)

	dummyOnce sync.Once
	dummyHash string
}

type Config struct {
	TokenTTL time.Duration
}

func NewService(users UserRepo, hasher PasswordHasher, tokens TokenCodec, cfg Config) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		pub:      events.Noop{},
		tokenTTL: ttl,
		audit:    func(context.Context, string, map[string]string) {},
	}
}

// Result is the common output of register and login.
type Result struct {
	User  domain.User
	Token string
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

func (s *Service) issueToken(u domain.User) (string, error) {
	tok, err := s.tokens.Issue(Claims{UserID: u.ID, Email: u.Email}, s.tokenTTL)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return tok, nil
}

// burnCompare runs a hash comparison against a throwaway hash so an unknown
// email costs about as much as a wrong password.
func (s *Service) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("user-service-dummy-password")
	})
	if s.dummyHash != "" {
		_ = s.hasher.Compare(s.dummyHash, password)
	}
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := err.(*domain.Error); ok {
		return de.Code
	}
	return "non_domain_error"
}
