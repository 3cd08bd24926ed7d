package validator

import (
	"errors"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		if got := IsEmpty(c.input); got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	for _, s := range []string{"2025-10-13", "2024-02-29"} {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"2025-02-29", "13-10-2025", "2025-10-13T00:00:00Z", ""} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2025-10-13T09:00:00+09:00", "2025-10-13T00:00:00Z", "2025-10-13T09:00:00.123Z"}
	invalid := []string{"2025-10-13 09:00", "2025-10-13", "2025-10-13T09:00:00", ""}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestIsValidWeekday(t *testing.T) {
	for _, s := range []string{"MONDAY", "sunday", "Friday"} {
		if !IsValidWeekday(s) {
			t.Errorf("IsValidWeekday(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"MON", "", "HOLIDAY"} {
		if IsValidWeekday(s) {
			t.Errorf("IsValidWeekday(%q) = true, want false", s)
		}
	}
}

func TestOneOf(t *testing.T) {
	if !OneOf("HOURLY", []string{"HOURLY", "FIXED"}) {
		t.Error("OneOf(HOURLY) = false, want true")
	}
	if OneOf("DAILY", []string{"HOURLY", "FIXED"}) {
		t.Error("OneOf(DAILY) = true, want false")
	}
	if !OneOf(3, []int{1, 2, 3}) {
		t.Error("OneOf(3) = false, want true")
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Fatalf("empty ValidationErrors.Err() = %v, want nil", errs.Err())
	}

	errs.Add("start_time", "invalid")
	errs.Add("worker_id", "required")
	errs.Add("start_time", "must be before end_time")

	err := errs.Err()
	var got ValidationErrors
	if !errors.As(err, &got) || len(got) != 3 {
		t.Fatalf("Err() = %v, want 3 validation errors", err)
	}

	want := "start_time: invalid; worker_id: required; start_time: must be before end_time"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	m := errs.ToMap()
	if len(m) != 2 || m["start_time"] != "invalid" || m["worker_id"] != "required" {
		t.Errorf("ToMap() = %v", m)
	}
}
