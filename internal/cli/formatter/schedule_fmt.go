package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/rules"
	"github.com/alexanderramin/shiftboard/internal/view"
	"github.com/charmbracelet/lipgloss"
)

// columnsPerSlot widens the gantt axis so short slots stay visible.
const columnsPerSlot = 2

// FormatGrid renders a process or worker grid as a table with one column
// per date. Each cell lists its assignments on separate lines.
func FormatGrid(g view.Grid) string {
	if len(g.Rows) == 0 {
		return Dim("(該当なし)") + "\n"
	}

	corner := "工程"
	if g.Mode == domain.GridByWorker {
		corner = "作業者"
	}
	headers := make([]string, 0, len(g.Dates)+1)
	headers = append(headers, corner)
	for _, d := range g.Dates {
		headers = append(headers, view.FormatDateHeader(d))
	}

	rows := make([][]string, 0, len(g.Rows))
	for _, label := range g.Rows {
		row := make([]string, 0, len(g.Dates)+1)
		row = append(row, Bold(label))
		for _, d := range g.Dates {
			var lines []string
			for _, a := range g.Cell(label, d) {
				lines = append(lines, fmt.Sprintf("%s %s", a.Label, Dim(a.Start+"-"+a.End)))
			}
			row = append(row, strings.Join(lines, "\n"))
		}
		rows = append(rows, row)
	}
	return RenderTable(headers, rows)
}

// FormatGantt renders the daily timeline: one row per worker with bars
// placed on the business window.
func FormatGantt(g view.Gantt, cfg rules.Config) string {
	var b strings.Builder
	b.WriteString(Header(view.FormatDateHeader(g.Date) + " " + g.Date))
	b.WriteString("\n")
	if len(g.Workers) == 0 {
		b.WriteString(Dim("(作業者なし)") + "\n")
		return b.String()
	}

	byWorker := make(map[string][]view.Event, len(g.Workers))
	for _, ev := range g.Events {
		byWorker[ev.Worker] = append(byWorker[ev.Worker], ev)
	}

	nameWidth := 0
	for _, w := range g.Workers {
		nameWidth = max(nameWidth, lipgloss.Width(w))
	}
	cols := len(view.GenerateTimeSlots(cfg)) * columnsPerSlot

	b.WriteString(strings.Repeat(" ", nameWidth+1))
	b.WriteString(axis(cfg, cols))
	b.WriteString("\n")

	for _, w := range g.Workers {
		b.WriteString(w)
		b.WriteString(strings.Repeat(" ", nameWidth-lipgloss.Width(w)+1))
		b.WriteString(timelineBar(byWorker[w], cfg, cols))
		var labels []string
		for _, ev := range byWorker[w] {
			labels = append(labels, fmt.Sprintf("%s %s-%s", ev.Process, ev.Start, ev.End))
		}
		if len(labels) > 0 {
			b.WriteString(" " + Dim(strings.Join(labels, ", ")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatWorkerWeek renders one worker's week, one timeline row per day.
func FormatWorkerWeek(w view.WorkerWeek, cfg rules.Config) string {
	var b strings.Builder
	title := w.Worker
	if title == "" {
		title = "(作業者未選択)"
	}
	b.WriteString(Header(title))
	b.WriteString("\n")

	cols := len(view.GenerateTimeSlots(cfg)) * columnsPerSlot
	const labelWidth = 8
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	b.WriteString(axis(cfg, cols))
	b.WriteString("\n")

	for _, d := range w.Dates {
		label := view.FormatDateHeader(d)
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", max(0, labelWidth-lipgloss.Width(label))+1))
		events := w.EventsByDate[d]
		b.WriteString(timelineBar(events, cfg, cols))
		var labels []string
		for _, ev := range events {
			labels = append(labels, fmt.Sprintf("%s %s-%s", ev.Process, ev.Start, ev.End))
		}
		if len(labels) > 0 {
			b.WriteString(" " + Dim(strings.Join(labels, ", ")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSlots lists the time slots of the business window.
func FormatSlots(slots []string, cfg rules.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s-%s / %d分刻み\n", Bold("営業時間"), cfg.BusinessStart, cfg.BusinessEnd, cfg.TimeStep)
	for i, s := range slots {
		if i > 0 && i%8 == 0 {
			b.WriteString("\n")
		} else if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(s)
	}
	b.WriteString("\n")
	return b.String()
}

// axis labels the business window edges above a timeline of cols cells
// framed by one border cell on each side.
func axis(cfg rules.Config, cols int) string {
	if cols == 0 {
		return ""
	}
	start, end := cfg.BusinessStart, cfg.BusinessEnd
	gap := max(1, cols+2-lipgloss.Width(start)-lipgloss.Width(end))
	return Dim(start + strings.Repeat(" ", gap) + end)
}

func timelineBar(events []view.Event, cfg rules.Config, cols int) string {
	if cols == 0 {
		return ""
	}
	cells := make([]string, cols)
	for i := range cells {
		cells[i] = Dim("·")
	}
	for _, ev := range events {
		from := int(math.Floor(view.Offset(cfg, ev.Start) * float64(cols)))
		to := int(math.Ceil(view.Offset(cfg, ev.End) * float64(cols)))
		to = max(to, from+1)
		style := BarStyle(ev.Color, ev.Process)
		for i := from; i < to && i < cols; i++ {
			cells[i] = style.Render(filledBlock)
		}
	}
	return "│" + strings.Join(cells, "") + "│"
}
