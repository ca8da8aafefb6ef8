package repo

import "testing"

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"דנה", "דנה"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\temp`, `c:\\temp`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
