package theme

import (
	"image/color"
	"testing"
)

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score int
		want  color.Color
	}{
		{0, Error},
		{49, Error},
		{50, Secondary},
		{79, Secondary},
		{80, Success},
		{89, Success},
		{90, ArcadeYellow},
		{100, ArcadeYellow},
	}
	for _, tt := range tests {
		if got := ScoreColor(tt.score); got != tt.want {
			t.Errorf("ScoreColor(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
