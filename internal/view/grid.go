package view

import (
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

// Assignment is one entry of a grid cell. Label holds the opposing
// dimension: the worker in a process grid, the process in a worker grid.
type Assignment struct {
	ID    string
	Label string
	Start string
	End   string
}

// Grid cross-tabulates rows (processes or workers) against dates. Cells is
// sparse: only non-empty cells are present, keyed by CellKey.
type Grid struct {
	Mode  domain.GridMode
	Rows  []string
	Dates []string
	Cells map[string][]Assignment
}

// CellKey builds the "<row>|<date>" key of a grid cell.
func CellKey(row, date string) string { return row + "|" + date }

// Cell returns the assignments of one cell, or nil.
func (g Grid) Cell(row, date string) []Assignment { return g.Cells[CellKey(row, date)] }

// GenerateProcessGrid tabulates processes against dates; cells list the
// workers assigned.
func GenerateProcessGrid(src Source, dates []string, filterText string) Grid {
	rows := filterLabels(src.Processes(), filterText)
	return buildGrid(domain.GridByProcess, rows, dates, func(row, date string) []Assignment {
		recs := src.RecordsByProcessDate(row, date)
		out := make([]Assignment, len(recs))
		for i, r := range recs {
			out[i] = Assignment{ID: r.ID, Label: r.Worker, Start: r.Start, End: r.End}
		}
		return out
	})
}

// GenerateWorkerGrid tabulates workers against dates; cells list the
// processes assigned.
func GenerateWorkerGrid(src Source, dates []string, filterText string) Grid {
	rows := filterLabels(src.Workers(), filterText)
	return buildGrid(domain.GridByWorker, rows, dates, func(row, date string) []Assignment {
		recs := src.RecordsByWorkerDate(row, date)
		out := make([]Assignment, len(recs))
		for i, r := range recs {
			out[i] = Assignment{ID: r.ID, Label: r.Process, Start: r.Start, End: r.End}
		}
		return out
	})
}

// GenerateGrid dispatches on the grid mode.
func GenerateGrid(src Source, mode domain.GridMode, dates []string, filterText string) Grid {
	if mode == domain.GridByWorker {
		return GenerateWorkerGrid(src, dates, filterText)
	}
	return GenerateProcessGrid(src, dates, filterText)
}

func buildGrid(mode domain.GridMode, rows, dates []string, cell func(row, date string) []Assignment) Grid {
	g := Grid{
		Mode:  mode,
		Rows:  rows,
		Dates: append([]string(nil), dates...),
		Cells: make(map[string][]Assignment),
	}
	for _, row := range rows {
		for _, date := range dates {
			if items := cell(row, date); len(items) > 0 {
				g.Cells[CellKey(row, date)] = items
			}
		}
	}
	return g
}

// filterLabels keeps labels containing filterText, case-insensitively.
func filterLabels(labels []string, filterText string) []string {
	if filterText == "" {
		return labels
	}
	needle := strings.ToLower(filterText)
	var out []string
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l), needle) {
			out = append(out, l)
		}
	}
	return out
}
