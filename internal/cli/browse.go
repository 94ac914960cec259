package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/cli/formatter"
	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/store"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the dataset interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := openDataset(ctx, app); err != nil {
				return err
			}
			m := newBrowseModel(ctx, app)
			defer m.close()

			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

type browseKeyMap struct {
	Grid   key.Binding
	Gantt  key.Binding
	Week   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Mode   key.Binding
	Range  key.Binding
	Worker key.Binding
	Save   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultBrowseKeys() browseKeyMap {
	return browseKeyMap{
		Grid:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "grid")),
		Gantt:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "gantt")),
		Week:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "week")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Mode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "process/worker")),
		Range:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "week/month")),
		Worker: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next worker")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grid, k.Gantt, k.Week, k.Prev, k.Next, k.Save, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Grid, k.Gantt, k.Week},
		{k.Prev, k.Next, k.Mode, k.Range, k.Worker},
		{k.Save, k.Help, k.Quit},
	}
}

// snapshotMsg delivers a store snapshot published after a change.
type snapshotMsg struct{ snap *store.Snapshot }

type savedMsg struct {
	ds  *domain.Dataset
	err error
}

// browseModel renders the store's active screen and redraws whenever the
// store publishes a new snapshot.
type browseModel struct {
	ctx  context.Context
	app  *App
	keys browseKeyMap
	help help.Model
	vp   viewport.Model

	snap    *store.Snapshot
	updates chan *store.Snapshot
	unsub   func()

	status string
	width  int
	height int
}

func newBrowseModel(ctx context.Context, app *App) *browseModel {
	m := &browseModel{
		ctx:     ctx,
		app:     app,
		keys:    defaultBrowseKeys(),
		help:    help.New(),
		vp:      viewport.New(0, 0),
		snap:    app.Schedule.Snapshot(),
		updates: make(chan *store.Snapshot, 1),
	}
	m.vp.KeyMap = outputViewportKeyMap()
	m.unsub = app.Schedule.Subscribe(func(s *store.Snapshot) error {
		// Keep only the latest snapshot.
		select {
		case <-m.updates:
		default:
		}
		select {
		case m.updates <- s:
		default:
		}
		return nil
	})
	m.refresh()
	return m
}

func (m *browseModel) close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// waitForSnapshot blocks until the store publishes.
func (m *browseModel) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.updates:
			return snapshotMsg{snap: s}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-4)
		m.refresh()
		return m, nil

	case snapshotMsg:
		m.snap = msg.snap
		m.refresh()
		return m, m.waitForSnapshot()

	case savedMsg:
		if msg.err != nil {
			m.status = formatter.StyleRed.Render(msg.err.Error())
		} else {
			m.status = formatter.StyleGreen.Render(fmt.Sprintf("saved %s (%d)", msg.ds.Name, msg.ds.RecordCount))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ui := m.snap.UI()
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Grid):
		m.setScreen(domain.ScreenGrid)
	case key.Matches(msg, m.keys.Gantt):
		m.setScreen(domain.ScreenGantt)
	case key.Matches(msg, m.keys.Week):
		m.setScreen(domain.ScreenWeek)
	case key.Matches(msg, m.keys.Prev):
		m.step(ui, -1)
	case key.Matches(msg, m.keys.Next):
		m.step(ui, 1)
	case key.Matches(msg, m.keys.Mode):
		mode := domain.GridByWorker
		if ui.GridMode == domain.GridByWorker {
			mode = domain.GridByProcess
		}
		m.app.Schedule.SetUI(domain.UIPatch{GridMode: &mode})
	case key.Matches(msg, m.keys.Range):
		r := domain.RangeMonth
		if ui.RangeMode == domain.RangeMonth {
			r = domain.RangeWeek
		}
		m.app.Schedule.SetUI(domain.UIPatch{RangeMode: &r})
	case key.Matches(msg, m.keys.Worker):
		if next := nextWorker(m.snap.Workers(), ui.WeekWorker); next != ui.WeekWorker {
			m.app.Schedule.SetUI(domain.UIPatch{WeekWorker: &next})
		}
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	// Render key-driven changes now; snapshotMsg covers changes made elsewhere.
	m.snap = m.app.Schedule.Snapshot()
	m.refresh()
	return m, nil
}

func (m *browseModel) setScreen(s domain.Screen) {
	m.app.Schedule.SetUI(domain.UIPatch{ActiveScreen: &s})
}

// step moves the active screen's date by one unit: a week or month for the
// grid, a day for the gantt, a week for the worker week.
func (m *browseModel) step(ui domain.UIState, dir int) {
	switch ui.ActiveScreen {
	case domain.ScreenGantt:
		d := shiftDate(ui.GanttDate, 0, dir)
		m.app.Schedule.SetUI(domain.UIPatch{GanttDate: &d})
	case domain.ScreenWeek:
		d := shiftDate(ui.WeekDate, 0, 7*dir)
		m.app.Schedule.SetUI(domain.UIPatch{WeekDate: &d})
	default:
		d := shiftDate(ui.AnchorDate, 0, 7*dir)
		if ui.RangeMode == domain.RangeMonth {
			d = shiftDate(ui.AnchorDate, dir, 0)
		}
		m.app.Schedule.SetUI(domain.UIPatch{AnchorDate: &d})
	}
}

func (m *browseModel) save() tea.Cmd {
	return func() tea.Msg {
		ds, err := m.app.Schedule.Save(m.ctx)
		return savedMsg{ds: ds, err: err}
	}
}

// refresh re-renders the active screen into the viewport.
func (m *browseModel) refresh() {
	var (
		out string
		err error
	)
	switch m.snap.UI().ActiveScreen {
	case domain.ScreenGantt:
		out = renderGantt(m.snap, m.app.Schedule.Rules())
	case domain.ScreenWeek:
		out, err = renderWeek(m.snap, m.app.Schedule.Rules())
	default:
		out, err = renderGrid(m.snap)
	}
	if err != nil {
		out = formatter.StyleRed.Render(err.Error())
	}
	m.vp.SetContent(out)
}

func (m *browseModel) View() string {
	var b strings.Builder

	saved, ok := m.snap.LastSavedAt()
	name := m.snap.DatasetName()
	if name == "" {
		name = m.app.Dataset
	}
	fmt.Fprintf(&b, "%s  %s  %s  %s\n",
		formatter.Bold(name),
		formatter.Dim(string(m.snap.UI().ActiveScreen)),
		formatter.Count(m.snap.Len(), "件"),
		formatter.SavedState(m.snap.Dirty(), saved, ok))

	b.WriteString(m.vp.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// shiftDate adds months and days to a YYYY-MM-DD date. Moving by months
// lands on the first of the month. Invalid input is returned unchanged.
func shiftDate(date string, months, days int) string {
	t, err := domain.ParseDate(date)
	if err != nil {
		return date
	}
	if months != 0 {
		t = t.AddDate(0, 0, 1-t.Day())
	}
	return domain.FormatDate(t.AddDate(0, months, days))
}

// nextWorker cycles through workers after current, wrapping around.
func nextWorker(workers []string, current string) string {
	if len(workers) == 0 {
		return ""
	}
	for i, w := range workers {
		if w == current {
			return workers[(i+1)%len(workers)]
		}
	}
	return workers[0]
}

// outputViewportKeyMap returns a restricted keymap for the viewport. Only
// arrow and page keys scroll so letter keys stay free for commands.
func outputViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}
