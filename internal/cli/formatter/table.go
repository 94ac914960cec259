package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line. Cells
// may span several lines; each row is as tall as its tallest cell. Widths
// are measured in terminal cells so wide characters align.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	split := make([][][]string, len(rows))
	for r, row := range rows {
		split[r] = make([][]string, cols)
		for i := 0; i < cols; i++ {
			if i < len(row) && row[i] != "" {
				split[r][i] = strings.Split(row[i], "\n")
			}
			for _, line := range split[r][i] {
				widths[i] = max(widths[i], lipgloss.Width(line))
			}
		}
	}

	var b strings.Builder
	writeLine(&b, widths, func(i int) string { return StyleHeader.Render(headers[i]) })

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, cells := range split {
		height := 1
		for _, c := range cells {
			height = max(height, len(c))
		}
		for line := 0; line < height; line++ {
			writeLine(&b, widths, func(i int) string {
				if line < len(cells[i]) {
					return cells[i][line]
				}
				return ""
			})
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, widths []int, cell func(i int) string) {
	var line strings.Builder
	for i, w := range widths {
		text := cell(i)
		line.WriteString(text)
		if i < len(widths)-1 {
			line.WriteString(strings.Repeat(" ", max(0, w-lipgloss.Width(text))+colGap))
		}
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteString("\n")
}
