package shared

import "testing"

func TestValidatorClock(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"09:00", true},
		{"23:59", true},
		{"9:00", false},
		{"09:0", false},
		{"0900", false},
		{"", false},
		{"ab:cd", false},
	}

	for _, tc := range tests {
		v := NewValidator()
		v.Clock("stime", tc.value)
		if tc.valid && v.HasIssues() {
			t.Fatalf("expected %q to be valid", tc.value)
		}
		if !tc.valid && !v.HasIssues() {
			t.Fatalf("expected %q to be rejected", tc.value)
		}
	}
}

func TestValidatorIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Required("detail", "", "detail is required")

	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if issues[0].Field != "detail" || issues[1].Field != "name" {
		t.Fatalf("issues not sorted by field: %+v", issues)
	}
}

func TestParseDateFormats(t *testing.T) {
	if _, err := ParseDate("2024-06-15"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseDate("2024-06-15T10:00:00Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseDate("15/06/2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
