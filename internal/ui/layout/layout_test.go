package layout

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{MinWidth, MinHeight, false},
		{MinWidth - 1, 40, true},
		{120, MinHeight - 1, true},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestContentHeight(t *testing.T) {
	if got := ContentHeight(30); got != 24 {
		t.Errorf("ContentHeight(30) = %d, want 24", got)
	}
	if got := ContentHeight(2); got != 0 {
		t.Errorf("ContentHeight(2) = %d, want 0", got)
	}
}

func TestRenderHeader_ShowsTitleAndUser(t *testing.T) {
	out := ansi.Strip(RenderHeader("Grade 3", "maya", 80))
	for _, want := range []string{"MathDrill", "Grade 3", "maya"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFooter_ShowsHints(t *testing.T) {
	out := ansi.Strip(RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80))
	if !strings.Contains(out, "Esc Back") {
		t.Errorf("footer missing hint:\n%s", out)
	}
}
