package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/service"
)

// FormatIssues renders one colored line per issue.
func FormatIssues(issues domain.Issues) string {
	var b strings.Builder
	for _, is := range issues {
		b.WriteString("  ")
		b.WriteString(IssueStyle(is.Kind).Render("✗"))
		b.WriteString(" ")
		b.WriteString(is.Message)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatImportReport summarizes a reviewed interchange file.
func FormatImportReport(r *service.ImportReport) string {
	var b strings.Builder
	title := "取込結果"
	if r.Source != "" {
		title += " " + r.Source
	}
	b.WriteString(Header(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s / %s  %s\n", Count(len(r.Records), "件取込"), Count(r.Rows, "行"), RenderRatio(len(r.Records), r.Rows, 20))

	if len(r.RowIssues) > 0 {
		b.WriteString("\n" + StyleRed.Render("除外された行") + "\n")
		b.WriteString(FormatIssues(r.RowIssues))
	}
	if len(r.ValidationIssues) > 0 {
		b.WriteString("\n" + StyleYellow.Render("制約違反") + "\n")
		b.WriteString(FormatIssues(r.ValidationIssues))
	}
	if len(r.Reassigned) > 0 {
		b.WriteString("\n" + StyleBlue.Render("ID再割当") + "\n")
		lines := make([]string, len(r.Reassigned))
		for i, ra := range r.Reassigned {
			lines[i] = fmt.Sprintf("%s → %s", ra.Old, ra.New)
		}
		b.WriteString(Bullets(lines))
	}
	if r.Clean() {
		b.WriteString(StyleGreen.Render("✔ 問題なし") + "\n")
	}
	return b.String()
}

// FormatRecord renders a single record on one line.
func FormatRecord(rec domain.ScheduleRecord) string {
	line := fmt.Sprintf("%s  %s  %s  %s  %s",
		Dim(rec.ID), rec.Date, Bold(rec.Worker), rec.Process, rec.Start+"-"+rec.End)
	if rec.Note != "" {
		line += "  " + Dim(rec.Note)
	}
	return line + "\n"
}

// FormatRecords renders records as a table in store order.
func FormatRecords(records []domain.ScheduleRecord) string {
	if len(records) == 0 {
		return Dim("(データなし)") + "\n"
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{r.ID, r.Date, r.Worker, r.Process, r.Start + "-" + r.End, r.Note}
	}
	return RenderTable([]string{"ID", "日付", "作業者", "工程", "時間", "備考"}, rows)
}

// FormatDatasets lists saved datasets.
func FormatDatasets(sets []*domain.Dataset) string {
	if len(sets) == 0 {
		return Dim("保存済みのデータセットはありません") + "\n"
	}
	rows := make([][]string, len(sets))
	for i, d := range sets {
		rows[i] = []string{
			Bold(d.Name),
			fmt.Sprint(d.RecordCount),
			d.Source,
			d.UpdatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	return RenderTable([]string{"名前", "件数", "取込元", "更新"}, rows)
}

// FormatAssignResult reports the effect of a cell assignment.
func FormatAssignResult(r *service.AssignResult) string {
	var b strings.Builder
	for _, rec := range r.Added {
		b.WriteString(StyleGreen.Render("+ "))
		b.WriteString(FormatRecord(rec))
	}
	for _, id := range r.Removed {
		b.WriteString(StyleRed.Render("- "))
		b.WriteString(Dim(id))
		b.WriteString("\n")
	}
	if len(r.Rejected) > 0 {
		b.WriteString(StyleYellow.Render("追加できなかった割当") + "\n")
		b.WriteString(FormatIssues(r.Rejected))
	}
	if !r.Changed() && len(r.Rejected) == 0 {
		b.WriteString(Dim("変更なし") + "\n")
	}
	return b.String()
}
