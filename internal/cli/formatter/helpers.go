package formatter

import (
	"fmt"
	"strings"
	"time"
)

// SavedState summarizes the dirty flag and last save time for a status line.
func SavedState(dirty bool, savedAt time.Time, ok bool) string {
	switch {
	case dirty:
		return StyleYellow.Render("● 未保存の変更あり")
	case ok:
		return StyleGreen.Render("✔ 保存済み " + savedAt.Local().Format("15:04"))
	default:
		return StyleDim.Render("○ 変更なし")
	}
}

// Count renders "n label" with the number emphasized.
func Count(n int, label string) string {
	return fmt.Sprintf("%s %s", Bold(fmt.Sprint(n)), label)
}

// Bullets renders one dimmed bullet per line.
func Bullets(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(StyleDim.Render("  • "))
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}
