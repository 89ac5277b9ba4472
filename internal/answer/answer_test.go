package answer

import (
	"encoding/json"
	"testing"
)

type labelled string

func (l labelled) String() string { return "  " + string(l) + "  " }

func TestNormalize(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{nil, ""},
		{"", ""},
		{" 3/4 ", "3/4"},
		{"TRUE", "true"},
		{"\tGreater Than\n", "greater than"},
		{12, "12"},
		{int64(-7), "-7"},
		{uint8(5), "5"},
		{3.0, "3"},
		{2.5, "2.5"},
		{float32(0.25), "0.25"},
		{true, "true"},
		{false, "false"},
		{json.Number("4.50"), "4.5"},
		{labelled("ABC"), "abc"},
		{[]byte(" X "), "x"},
	}

	for _, tc := range tests {
		got := Normalize(tc.input)
		if got != tc.want {
			t.Errorf("Normalize(%#v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		candidate any
		canonical any
		want      bool
	}{
		{" 3/4 ", "3/4", true},
		{"TRUE", "true", true},
		{"3/5", "3/4", false},
		{"12", 12, true},
		{12, "12", true},
		{"2.5", 2.5, true},
		{nil, "7", false},
		{nil, "", true},
		{"", "0", false},
	}

	for _, tc := range tests {
		got := Matches(tc.candidate, tc.canonical)
		if got != tc.want {
			t.Errorf("Matches(%#v, %#v) = %v, want %v", tc.candidate, tc.canonical, got, tc.want)
		}
	}
}

// Equivalent but differently written answers are scored as different.
func TestMatches_StrictStringPolicy(t *testing.T) {
	tests := []struct {
		candidate string
		canonical string
	}{
		{"6/8", "3/4"},
		{"2.50", "2.5"},
		{"007", "7"},
	}

	for _, tc := range tests {
		if Matches(tc.candidate, tc.canonical) {
			t.Errorf("Matches(%q, %q) = true, want false", tc.candidate, tc.canonical)
		}
	}
}
