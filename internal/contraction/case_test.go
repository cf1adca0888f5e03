package contraction

import "testing"

func TestAdjustCase(t *testing.T) {
	tests := []struct {
		expansion string
		original  string
		want      string
	}{
		{"do not", "DON'T", "DO NOT"},
		{"do not", "Don't", "Do not"},
		{"do not", "don't", "do not"},
		{"do not", "dON'T", "do not"},
		{"them", "'EM", "THEM"},
		{"them", "'em", "them"},
		{"i am", "I'm", "I am"},
		{"", "Don't", ""},
		{"do not", "", "do not"},
		{"über", "Ü's", "Über"},
	}
	for _, tt := range tests {
		if got := AdjustCase(tt.expansion, tt.original); got != tt.want {
			t.Errorf("AdjustCase(%q, %q) = %q, want %q", tt.expansion, tt.original, got, tt.want)
		}
	}
}

func TestIsAllUpper(t *testing.T) {
	tests := map[string]bool{
		"DON'T": true,
		"I":     true,
		"'":     false,
		"I'm":   false,
		"123":   false,
	}
	for in, want := range tests {
		if got := isAllUpper(in); got != want {
			t.Errorf("isAllUpper(%q) = %v, want %v", in, got, want)
		}
	}
}
