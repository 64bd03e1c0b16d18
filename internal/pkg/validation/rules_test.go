package validation

import "testing"

func TestIsOptionLetter(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"A", true},
		{"B", true},
		{"C", true},
		{"D", true},
		{"a", true},
		{"d", true},
		{" B ", true},
		{"E", false},
		{"e", false},
		{"", false},
		{"AB", false},
		{"1", false},
	}

	for _, tc := range tests {
		if got := IsOptionLetter(tc.input); got != tc.want {
			t.Errorf("IsOptionLetter(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestEmailPattern(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"student@skillforge.io", true},
		{"a.user+exams@example.co", true},
		{"student@", false},
		{"@example.com", false},
		{"plainaddress", false},
	}

	for _, tc := range tests {
		if got := CompiledPatterns.Email.MatchString(tc.email); got != tc.want {
			t.Errorf("Email.MatchString(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}
