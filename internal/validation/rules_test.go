package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCheckPositive(t *testing.T) {
	for _, n := range []int{0, 1, 42} {
		if err := CheckPositive(n); err != nil {
			t.Fatalf("CheckPositive(%d) = %v, want nil", n, err)
		}
	}
	if err := CheckPositive(-1); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("CheckPositive(-1) = %v, want ErrInvalidValue", err)
	}
	if err := CheckPositive(-0.1); err == nil {
		t.Fatalf("CheckPositive(-0.1) should fail")
	}
}

func TestCheckRatingWithPositiveGivesClosedRange(t *testing.T) {
	check := func(r float64) error {
		e := Errors{}
		e.Check("rating", CheckPositive(r))
		e.Check("rating", CheckRating(r))
		return e.Err()
	}

	for _, r := range []float64{0, 0.1, 2.5, 5} {
		if err := check(r); err != nil {
			t.Fatalf("rating %v should pass: %v", r, err)
		}
	}
	for _, r := range []float64{-1, -0.1, 5.1, 6, 1000.1} {
		if err := check(r); err == nil {
			t.Fatalf("rating %v should fail", r)
		}
	}
}

func TestCheckAddressLen(t *testing.T) {
	if err := CheckAddressLen("short"); err == nil {
		t.Fatalf("short address should fail")
	}
	if err := CheckAddressLen("0123456789"); err == nil {
		t.Fatalf("ten character address should fail")
	}
	if err := CheckAddressLen("some valid address"); err != nil {
		t.Fatalf("long address should pass: %v", err)
	}
}

func TestCheckBody(t *testing.T) {
	valid := []string{"", "a", "Б", "1", "12", "0007"}
	for _, body := range valid {
		if err := CheckBody(body); err != nil {
			t.Fatalf("CheckBody(%q) = %v, want nil", body, err)
		}
	}
	invalid := []string{"ab", "-1", "1a", "12b"}
	for _, body := range invalid {
		if err := CheckBody(body); err == nil {
			t.Fatalf("CheckBody(%q) should fail", body)
		}
	}
}

func TestCheckMaxLenCountsRunes(t *testing.T) {
	if err := CheckMaxLen("ёжик", 4); err != nil {
		t.Fatalf("four runes within limit 4: %v", err)
	}
	if err := CheckMaxLen("ёжики", 4); err == nil {
		t.Fatalf("five runes over limit 4 should fail")
	}
}

func TestCheckDecimalPlaces(t *testing.T) {
	if err := CheckDecimalPlaces(4.5, 1); err != nil {
		t.Fatalf("4.5 has one place: %v", err)
	}
	if err := CheckDecimalPlaces(3, 1); err != nil {
		t.Fatalf("3 has no places: %v", err)
	}
	if err := CheckDecimalPlaces(1.25, 1); err == nil {
		t.Fatalf("1.25 has two places and should fail")
	}
}

func TestErrorsAggregatesEveryField(t *testing.T) {
	e := Errors{}
	e.Check("name", CheckRequired(""))
	e.Check("rating", CheckRating(7))
	e.Check("rating", CheckRating(7))
	e.Check("house_number", CheckPositive(-3))
	e.Check("ok", nil)

	err := e.Err()
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("aggregated error should unwrap to ErrInvalidValue")
	}
	if len(e) != 3 {
		t.Fatalf("expected 3 failed fields, got %d: %v", len(e), e)
	}
	if len(e["rating"]) != 1 {
		t.Fatalf("duplicate messages should be collapsed: %v", e["rating"])
	}
	if strings.Contains(e["name"][0], ErrInvalidValue.Error()) {
		t.Fatalf("field message should not repeat the sentinel: %q", e["name"][0])
	}
}

func TestErrorsMerge(t *testing.T) {
	base := FromMap(map[string]string{"cinema": "Must be a valid UUID"})
	other := Errors{}
	other.Add("name", "this field may not be blank")

	base.Merge(other)
	base.Merge(nil)
	base.Merge(errors.New("boom"))

	if len(base) != 3 {
		t.Fatalf("expected cinema, name and non_field_errors, got %v", base)
	}
	if base["non_field_errors"][0] != "boom" {
		t.Fatalf("unexpected non field error: %v", base["non_field_errors"])
	}
	if (Errors{}).Err() != nil {
		t.Fatalf("empty Errors must yield nil error")
	}
}

func TestErrorsFillKeepsEarlierFieldMessages(t *testing.T) {
	shape := FromMap(map[string]string{"address": "must be a valid UUID"})
	entityErrs := Errors{}
	entityErrs.Add("address", "this field is required")
	entityErrs.Add("name", "this field may not be blank")

	shape.Fill(entityErrs)

	if got := shape["address"]; len(got) != 1 || got[0] != "must be a valid UUID" {
		t.Fatalf("address should keep the shape message only, got %v", got)
	}
	if len(shape["name"]) != 1 {
		t.Fatalf("name should be filled in, got %v", shape)
	}
}

func TestCheckTimeOfDay(t *testing.T) {
	for _, d := range []time.Duration{0, 19*time.Hour + 30*time.Minute, 24*time.Hour - time.Microsecond} {
		if err := CheckTimeOfDay(d); err != nil {
			t.Fatalf("CheckTimeOfDay(%v) = %v, want nil", d, err)
		}
	}
	for _, d := range []time.Duration{-time.Second, 24 * time.Hour} {
		if err := CheckTimeOfDay(d); err == nil {
			t.Fatalf("CheckTimeOfDay(%v) should fail", d)
		}
	}
}

func TestCheckMaxInt(t *testing.T) {
	if err := CheckMaxInt(2147483647, 2147483647); err != nil {
		t.Fatalf("value at the limit should pass: %v", err)
	}
	if err := CheckMaxInt(3000000000, 2147483647); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("CheckMaxInt over the limit = %v, want ErrInvalidValue", err)
	}
}
