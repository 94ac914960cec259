package formatter

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// barPalette colors gantt bars of records without an explicit color.
var barPalette = []lipgloss.Color{ColorBlue, ColorGreen, ColorPurple, ColorYellow, ColorAqua, ColorHeader}

// ProcessColor picks a stable palette color for a process name.
func ProcessColor(process string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(process))
	return barPalette[h.Sum32()%uint32(len(barPalette))]
}

// BarStyle returns the style of one gantt bar. A record color, when set,
// wins over the process palette.
func BarStyle(color, process string) lipgloss.Style {
	if color != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return lipgloss.NewStyle().Foreground(ProcessColor(process))
}

// IssueStyle colors an issue by how it affects a batch.
func IssueStyle(kind domain.IssueKind) lipgloss.Style {
	switch kind {
	case domain.IssueOverlap, domain.IssueBusinessHours:
		return StyleYellow
	default:
		return StyleRed
	}
}

// Header renders a section header over a dim rule as wide as the text.
// Headers carry file and worker names, so the text is printed as given.
func Header(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(text), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
