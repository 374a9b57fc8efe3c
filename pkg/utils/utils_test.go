package utils

import (
	"testing"
)

func TestGenerateTokenKey(t *testing.T) {
	a, err := GenerateTokenKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := GenerateTokenKey()
	if len(a) != 40 {
		t.Fatalf("expected 40 characters, got %d", len(a))
	}
	if a == b {
		t.Fatalf("keys must differ")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("testpassword")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("testpassword", hash) {
		t.Fatalf("correct password rejected")
	}
	if CheckPasswordHash("wrong_password", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type req struct {
		Film  string `json:"film" validate:"required,uuid"`
		Email string `json:"email" validate:"omitempty,email"`
	}

	errs := ValidateStruct(req{Film: "nope", Email: "not-an-email"})
	if errs["film"] != "must be a valid UUID" {
		t.Fatalf("unexpected film error %q", errs["film"])
	}
	if errs["email"] == "" {
		t.Fatalf("expected email error, got %v", errs)
	}
	if ValidateStruct(req{Film: "3f0e7bd6-0d7a-4c3b-9a55-4c1c8c8e6a10"}) != nil {
		t.Fatalf("valid request reported errors")
	}
}

func TestPagination(t *testing.T) {
	if CalculateTotalPages(21, 10) != 3 {
		t.Fatalf("21 items in pages of 10 is 3 pages")
	}
	if CalculateOffset(3, 10) != 20 {
		t.Fatalf("page 3 starts at 20")
	}
	if ClampPerPage(0) != DefaultPerPage || ClampPerPage(1000) != MaxPerPage {
		t.Fatalf("clamp mismatch")
	}
	if ParseInt("abc", 5) != 5 || ParseInt("7", 1) != 7 || ParseInt("-3", 1) != 1 {
		t.Fatalf("ParseInt mismatch")
	}
}

func TestValidateStructShowTime(t *testing.T) {
	type req struct {
		Time *string `json:"time" validate:"omitempty,showtime"`
	}

	good, bad := "19:30", "25:61"
	if errs := ValidateStruct(req{Time: &good}); errs != nil {
		t.Fatalf("valid time rejected: %v", errs)
	}
	if errs := ValidateStruct(req{Time: &bad}); errs["time"] == "" {
		t.Fatalf("invalid time accepted")
	}
	if errs := ValidateStruct(req{}); errs != nil {
		t.Fatalf("absent time should pass: %v", errs)
	}
}
