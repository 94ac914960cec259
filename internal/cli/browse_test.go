package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBrowseDriver opens the app's dataset and drives a browse model sized
// for a wide terminal.
func newBrowseDriver(t *testing.T, app *App) (*teatest.Driver, *browseModel) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, openDataset(ctx, app))
	m := newBrowseModel(ctx, app)
	t.Cleanup(m.close)

	d := teatest.New(t, m, teatest.WithSize(200, 60))
	d.DrainInit()
	return d, m
}

func TestBrowse_StartsOnGrid(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app)

	d, _ := newBrowseDriver(t, app)
	view := d.View()
	assert.Contains(t, view, "default")
	assert.Contains(t, view, "2/2(月)")
	assert.Contains(t, view, "佐藤 09:00-10:00")
	assert.Contains(t, view, "quit")
}

func TestBrowse_SwitchScreens(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app)
	d, _ := newBrowseDriver(t, app)

	d.PressKey('2')
	assert.Equal(t, domain.ScreenGantt, app.Schedule.Snapshot().UI().ActiveScreen)
	assert.Contains(t, d.View(), "工程A 09:00-10:00")

	d.PressKey('3')
	assert.Equal(t, domain.ScreenWeek, app.Schedule.Snapshot().UI().ActiveScreen)
	assert.Contains(t, d.View(), "佐藤")

	d.PressKey('w')
	assert.Equal(t, "鈴木", app.Schedule.Snapshot().UI().WeekWorker)
	assert.Contains(t, d.View(), "工程B 13:00-15:00")

	d.PressKey('1')
	assert.Equal(t, domain.ScreenGrid, app.Schedule.Snapshot().UI().ActiveScreen)
}

func TestBrowse_StepDates(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app)
	d, _ := newBrowseDriver(t, app)

	d.Press(tea.KeyRight)
	assert.Equal(t, "2026-02-09", app.Schedule.Snapshot().UI().AnchorDate)
	assert.Contains(t, d.View(), "2/9(月)")

	d.PressKey('r')
	d.PressKey('l')
	assert.Equal(t, "2026-03-01", app.Schedule.Snapshot().UI().AnchorDate)

	d.PressKey('2')
	d.PressKey('h')
	assert.Equal(t, "2026-02-01", app.Schedule.Snapshot().UI().GanttDate)
}

func TestBrowse_ToggleMode(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app)
	d, _ := newBrowseDriver(t, app)

	d.PressKey('m')
	assert.Equal(t, domain.GridByWorker, app.Schedule.Snapshot().UI().GridMode)
	assert.Contains(t, d.View(), "作業者")
}

func TestBrowse_RedrawsOnExternalChange(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app)
	d, _ := newBrowseDriver(t, app)

	_, err := app.Schedule.AddRecord(context.Background(), domain.ScheduleRecord{
		Date: "2026-02-04", Worker: "田中", Process: "工程C", Start: "10:00", End: "12:00",
	})
	require.NoError(t, err)

	d.Send(snapshotMsg{snap: app.Schedule.Snapshot()})
	assert.Contains(t, d.View(), "田中 10:00-12:00")
	assert.Contains(t, d.View(), "未保存")
}

func TestBrowse_Save(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app)
	d, m := newBrowseDriver(t, app)

	require.NoError(t, app.Schedule.DeleteRecord(context.Background(), "R2"))
	require.True(t, app.Schedule.Snapshot().Dirty())

	d.Send(m.save()())
	assert.Contains(t, d.View(), "saved default (1)")
	assert.False(t, app.Schedule.Snapshot().Dirty())
}

func TestBrowse_Quit(t *testing.T) {
	app := testApp(t)
	d, _ := newBrowseDriver(t, app)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestShiftDate(t *testing.T) {
	tests := []struct {
		date         string
		months, days int
		want         string
	}{
		{"2026-02-02", 0, 7, "2026-02-09"},
		{"2026-02-02", 0, -1, "2026-02-01"},
		{"2026-01-31", 1, 0, "2026-02-01"},
		{"2026-03-15", -1, 0, "2026-02-01"},
		{"bad", 0, 1, "bad"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, shiftDate(tt.date, tt.months, tt.days))
		})
	}
}

func TestNextWorker(t *testing.T) {
	workers := []string{"佐藤", "鈴木"}
	assert.Equal(t, "鈴木", nextWorker(workers, "佐藤"))
	assert.Equal(t, "佐藤", nextWorker(workers, "鈴木"))
	assert.Equal(t, "佐藤", nextWorker(workers, "gone"))
	assert.Equal(t, "", nextWorker(nil, ""))
}
