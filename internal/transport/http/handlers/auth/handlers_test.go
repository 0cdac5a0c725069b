package authhandler

import "testing"

func TestValidLoginID(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"user@example.com", true},
		{"emp1024", true},
		{"EMP1024", true},
		{"user@@example.com", false},
		{"user name", false},
		{"user@example", false},
		{"emp-1024", false},
	}

	for _, tc := range tests {
		if got := validLoginID(tc.value); got != tc.want {
			t.Fatalf("validLoginID(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
