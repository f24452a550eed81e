package common

import "testing"

func TestHasAnyFold(t *testing.T) {
	tests := []struct {
		s    string
		subs []string
		want bool
	}{
		{"What is the WEATHER like?", []string{"weather"}, true},
		{"forecast please", []string{"weather", "forecast"}, true},
		{"hello there", []string{"weather"}, false},
		{"anything", nil, false},
	}

	for _, tt := range tests {
		if got := HasAnyFold(tt.s, tt.subs...); got != tt.want {
			t.Errorf("HasAnyFold(%q, %v) = %v, want %v", tt.s, tt.subs, got, tt.want)
		}
	}
}
