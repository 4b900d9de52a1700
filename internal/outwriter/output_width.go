package outwriter

import (
	"os"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableKeyWidth calculates the maximum width for row keys (clinic
// domains or periods) in table output based on terminal width and the
// number of metric columns.
func GetMaxTableKeyWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank column plus one formatted value per metric, with borders/padding
	baseWidth := 8 + 12*len(cfg.Metrics)

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
