package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderRatio renders done/total as a bar like [████░░░░] 50%. A full bar is
// green, one under a third red, anything between yellow. A zero total
// renders as complete.
func RenderRatio(done, total, width int) string {
	pct := 1.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	pct = max(0, min(1, pct))
	width = max(2, width)

	filled := min(width, int(pct*float64(width)))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	switch {
	case pct >= 1:
		style = StyleGreen
	case pct < 0.33:
		style = StyleRed
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
