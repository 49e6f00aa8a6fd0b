package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

const tagline = "what does it cost to make?"

// RenderBanner returns the banner art and tagline centred for the
// terminal on stdout.
func RenderBanner() string {
	return centerBanner(termWidth())
}

func centerBanner(width int) string {
	art := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")
	maxW := len(tagline)
	for _, l := range art {
		maxW = max(maxW, len(l))
	}
	pad := ""
	if width > maxW {
		pad = strings.Repeat(" ", (width-maxW)/2)
	}

	var b strings.Builder
	for _, l := range art {
		b.WriteString(pad + BannerStyle.Render(l) + "\n")
	}
	b.WriteString(pad + secondaryStyle.Render(tagline) + "\n")
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
