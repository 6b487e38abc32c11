package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/events"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

func TestNewService_DefaultsTokenTTL(t *testing.T) {
	t.Parallel()

	codec := &fakeCodec{}
	svc := NewService(newFakeUserRepo(), &fakeHasher{}, codec, Config{})

	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com", "secret123"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if len(codec.ttls) != 1 || codec.ttls[0] != DefaultTokenTTL {
		t.Fatalf("expected ttl %v, got %v", DefaultTokenTTL, codec.ttls)
	}
}

func TestRegister_MissingFields_ReturnsMissingField(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, email, password string
		field                 string
	}{
		{"", "a@b.com", "pw", "name"},
		{"   ", "a@b.com", "pw", "name"},
		{"Ann", "", "pw", "email"},
		{"Ann", "  ", "pw", "email"},
		{"Ann", "a@b.com", "", "password"},
	}

	for _, tc := range cases {
		svc, d := newSvcForTest(t)

		_, err := svc.Register(context.Background(), tc.name, tc.email, tc.password)
		requireErrCode(t, err, "missing_field")

		var de *domain.Error
		if !errors.As(err, &de) || de.Meta["field"] != tc.field {
			t.Fatalf("expected field %q, got %v", tc.field, err)
		}
		if d.users.createCalls != 0 {
			t.Fatalf("expected no store write")
		}
	}
}

func TestRegister_HashFail_ReturnsHashFailed(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.hasher.hashFn = func(pw string) (string, error) { return "", errors.New("boom") }

	_, err := svc.Register(context.Background(), "Ann", "a@b.com", "pw")
	requireDomainCode(t, err, "hash_failed")
}

func TestRegister_PasswordOverByteLimit_InvalidField(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	hashed := false
	d.hasher.hashFn = func(pw string) (string, error) {
		hashed = true
		return "h", nil
	}

	// 40 runes, 80 bytes
	_, err := svc.Register(context.Background(), "Ann", "a@b.com", strings.Repeat("é", 40))
	requireErrCode(t, err, "invalid_field")
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if hashed || d.users.createCalls != 0 {
		t.Fatalf("expected rejection before hashing")
	}
}

func TestRegister_HashFail_DomainErrorNotRewrapped(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.hasher.hashFn = func(pw string) (string, error) { return "", domain.ErrHashFailed(errors.New("boom")) }

	_, err := svc.Register(context.Background(), "Ann", "a@b.com", "pw")
	requireErrCode(t, err, "hash_failed")
	if n := strings.Count(err.Error(), "hash_failed"); n != 1 {
		t.Fatalf("expected hash_failed once, got %q", err.Error())
	}
}

func TestRegister_Success_IssuesToken_AndPersistsUser(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)

	res, err := svc.Register(context.Background(), "  Ann ", "  Ann@X.com ", "secret123")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.User.ID <= 0 {
		t.Fatalf("expected user ID set, got %d", res.User.ID)
	}
	if res.User.Name != "Ann" || res.User.Email != "ann@x.com" {
		t.Fatalf("expected normalized user, got %+v", res.User)
	}
	if res.User.PasswordHash != "hash:secret123" {
		t.Fatalf("expected stored hash, got %q", res.User.PasswordHash)
	}
	if res.Token != "jwt(1,ann@x.com)" {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if _, ok := d.users.byEmail["ann@x.com"]; !ok {
		t.Fatalf("expected user stored by email")
	}
	if len(d.codec.issued) != 1 || d.codec.issued[0].UserID != res.User.ID {
		t.Fatalf("expected token bound to new user, got %+v", d.codec.issued)
	}

	e := requireAuditAction(t, d.audits, "auth.register")
	requireAuditField(t, e, "result", "success")
	requireAuditField(t, e, "user_id", "1")

	if len(d.pub.evts) != 1 || d.pub.evts[0].Type != events.UserRegistered {
		t.Fatalf("expected user.registered event, got %+v", d.pub.evts)
	}
}

func TestRegister_Duplicate_ConflictBeforeWrite(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)

	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), "Ann 2", "ANN@x.com", "pw2")
	requireErrCode(t, err, "email_already_exists")

	if d.users.createCalls != 1 {
		t.Fatalf("expected exactly one store write, got %d", d.users.createCalls)
	}
	e := requireAuditAction(t, d.audits, "auth.register")
	requireAuditField(t, e, "result", "rejected")
}

func TestRegister_StoreUniqueViolation_MapsToConflict(t *testing.T) {
	t.Parallel()

	// existence check passed, but a concurrent registration won the write
	svc, d := newSvcForTest(t)
	d.users.createErr = domain.ErrEmailAlreadyExists()

	_, err := svc.Register(context.Background(), "Ann", "a@b.com", "passwordpassword")
	requireErrCode(t, err, "email_already_exists")
}

func TestRegister_ExistsErr_Propagates(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.users.existsErr = domain.ErrDBUnavailable(errors.New("conn refused"))

	_, err := svc.Register(context.Background(), "Ann", "a@b.com", "pw")
	requireErrCode(t, err, "db_unavailable")
}

func TestRegister_SignFail_ReturnsTokenSignFailed(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.codec.issueFn = func(Claims, time.Duration) (string, error) { return "", errors.New("no key") }

	_, err := svc.Register(context.Background(), "Ann", "a@b.com", "pw")
	requireErrCode(t, err, "token_sign_failed")
}

func TestRegister_PublisherFailure_IsNotFatal(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.pub.err = errors.New("broker down")

	res, err := svc.Register(context.Background(), "Ann", "a@b.com", "pw")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
}

func TestLogin_MissingFields_ReturnsMissingField(t *testing.T) {
	t.Parallel()

	svc, _ := newSvcForTest(t)

	_, err := svc.Login(context.Background(), "", "pw")
	requireErrCode(t, err, "missing_field")

	_, err = svc.Login(context.Background(), "e@x.com", "")
	requireErrCode(t, err, "missing_field")
}

func TestLogin_UserNotFound_NonEnumerating_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)

	_, err := svc.Login(context.Background(), "missing@x.com", "pw")
	requireDomainCode(t, err, "invalid_credentials")

	// a comparison still ran so timing matches the bad-password path
	if len(d.hasher.compared) != 1 {
		t.Fatalf("expected one compare, got %d", len(d.hasher.compared))
	}
	e := requireAuditAction(t, d.audits, "auth.login")
	requireAuditField(t, e, "reason", "unknown_email")
}

func TestLogin_BadPassword_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.users.put(domain.User{ID: 1, Name: "E", Email: "e@x.com", PasswordHash: "hash:right"})

	_, err := svc.Login(context.Background(), "e@x.com", "wrong")
	requireDomainCode(t, err, "invalid_credentials")
}

func TestLogin_NotFoundAndBadPassword_SameMessage(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.users.put(domain.User{ID: 1, Name: "E", Email: "e@x.com", PasswordHash: "hash:right"})

	_, errMissing := svc.Login(context.Background(), "nobody@x.com", "right")
	_, errBadPw := svc.Login(context.Background(), "e@x.com", "wrong")

	var a, b *domain.Error
	if !errors.As(errMissing, &a) || !errors.As(errBadPw, &b) {
		t.Fatalf("expected domain errors, got %v / %v", errMissing, errBadPw)
	}
	if a.Message != b.Message || a.Code != b.Code || a.Kind != b.Kind {
		t.Fatalf("expected identical errors, got %+v / %+v", a, b)
	}
}

func TestLogin_StoreError_NotMaskedAsCredentials(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.users.getByEmailErr = domain.ErrDBUnavailable(errors.New("timeout"))

	_, err := svc.Login(context.Background(), "e@x.com", "pw")
	requireErrCode(t, err, "db_unavailable")
}

func TestLogin_Success_IssuesToken(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.users.put(domain.User{ID: 9, Name: "E", Email: "e@x.com", PasswordHash: "hash:pw"})

	res, err := svc.Login(context.Background(), "  E@x.com  ", "pw")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.User.ID != 9 {
		t.Fatalf("expected user 9, got %+v", res.User)
	}
	if res.Token != "jwt(9,e@x.com)" {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if d.users.createCalls != 0 {
		t.Fatalf("login must not write")
	}
	e := requireAuditAction(t, d.audits, "auth.login")
	requireAuditField(t, e, "result", "success")
}
