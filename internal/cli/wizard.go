package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/cli/formatter"
	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// shiftboardHuhTheme returns a huh theme using the formatter palette.
func shiftboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// wizardRecord builds the form behind an interactive "add". Fields start
// from rec; known workers and processes are offered as suggestions.
func wizardRecord(rec *domain.ScheduleRecord, workers, processes []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("日付").
				Placeholder(domain.DefaultDate).
				Value(&rec.Date).
				Validate(validateDate),
			huh.NewInput().
				Title("作業者").
				Suggestions(workers).
				Value(&rec.Worker).
				Validate(validateRequired("作業者")),
			huh.NewInput().
				Title("工程").
				Suggestions(processes).
				Value(&rec.Process).
				Validate(validateRequired("工程")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("開始").
				Placeholder("09:00").
				Value(&rec.Start).
				Validate(validateClock),
			huh.NewInput().
				Title("終了").
				Placeholder("10:00").
				Value(&rec.End).
				Validate(validateClock),
			huh.NewInput().
				Title("備考").
				Value(&rec.Note),
		),
	).WithTheme(shiftboardHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("はい").
				Negative("いいえ").
				Value(result),
		),
	).WithTheme(shiftboardHuhTheme()).WithShowHelp(false)
}

func validateDate(s string) error {
	if !domain.IsValidDate(strings.TrimSpace(s)) {
		return fmt.Errorf("YYYY-MM-DD形式で入力してください")
	}
	return nil
}

func validateClock(s string) error {
	if !domain.IsValidTime(domain.NormalizeTime(s)) {
		return fmt.Errorf("HH:MM形式で入力してください")
	}
	return nil
}

func validateRequired(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%sが未入力です", label)
		}
		return nil
	}
}
