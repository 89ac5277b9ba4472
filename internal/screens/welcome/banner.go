package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// Block letters for the banner, six rows each.
var glyphs = map[rune][]string{
	'M': {"███╗   ███╗", "████╗ ████║", "██╔████╔██║", "██║╚██╔╝██║", "██║ ╚═╝ ██║", "╚═╝     ╚═╝"},
	'A': {" █████╗ ", "██╔══██╗", "███████║", "██╔══██║", "██║  ██║", "╚═╝  ╚═╝"},
	'T': {"████████╗", "╚══██╔══╝", "   ██║   ", "   ██║   ", "   ██║   ", "   ╚═╝   "},
	'H': {"██╗  ██╗", "██║  ██║", "███████║", "██╔══██║", "██║  ██║", "╚═╝  ╚═╝"},
	'D': {"██████╗ ", "██╔══██╗", "██║  ██║", "██║  ██║", "██████╔╝", "╚═════╝ "},
	'R': {"██████╗ ", "██╔══██╗", "██████╔╝", "██╔══██╗", "██║  ██║", "╚═╝  ╚═╝"},
	'I': {"██╗", "██║", "██║", "██║", "██║", "╚═╝"},
	'L': {"██╗     ", "██║     ", "██║     ", "██║     ", "███████╗", "╚══════╝"},
}

// BannerArt spells MATHDRILL in block letters.
var BannerArt = blockText("MATHDRILL")

// BannerCompact is used where the block letters do not fit.
const BannerCompact = "M · A · T · H · D · R · I · L · L"

func blockText(word string) string {
	rows := make([]string, 6)
	for _, r := range word {
		for i, part := range glyphs[r] {
			rows[i] += part
		}
	}
	return strings.Join(rows, "\n")
}

// RenderBanner returns the banner in the primary color, falling back to the
// compact form when width cannot hold the block letters.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < lipgloss.Width(BannerArt)+2 {
		return style.Render(BannerCompact)
	}
	return style.Render(BannerArt)
}
