package domain

import (
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ann@X.com "); got != "ann@x.com" {
		t.Fatalf("expected ann@x.com, got %q", got)
	}
}

func TestUserPatch_Empty(t *testing.T) {
	var p UserPatch
	if !p.Empty() {
		t.Fatalf("expected zero patch to be empty")
	}

	name := "Ann"
	p.Name = &name
	if p.Empty() {
		t.Fatalf("expected patch with name to be non-empty")
	}
}

func TestCheckPasswordLength_CountsBytes(t *testing.T) {
	if err := CheckPasswordLength(strings.Repeat("x", 72)); err != nil {
		t.Fatalf("72 ascii bytes should pass, got %v", err)
	}
	if err := CheckPasswordLength(strings.Repeat("é", 36)); err != nil {
		t.Fatalf("72 bytes should pass, got %v", err)
	}
	err := CheckPasswordLength(strings.Repeat("é", 37))
	if !Is(err, "invalid_field") || KindOf(err) != KindValidation {
		t.Fatalf("expected invalid_field, got %v", err)
	}
}
