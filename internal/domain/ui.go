package domain

// DefaultDate is the anchor every view falls back to after a load.
const DefaultDate = "2026-02-02"

// UIState holds the presentation parameters the view projector consumes.
type UIState struct {
	ActiveScreen Screen
	GridMode     GridMode
	RangeMode    RangeMode
	AnchorDate   string
	GanttDate    string
	WeekDate     string
	WeekWorker   string
	FilterText   string
}

// DefaultUIState returns the UI parameters of a freshly reset store.
func DefaultUIState(date string) UIState {
	return UIState{
		ActiveScreen: ScreenGrid,
		GridMode:     GridByProcess,
		RangeMode:    RangeWeek,
		AnchorDate:   date,
		GanttDate:    date,
		WeekDate:     date,
	}
}

// UIPatch is a partial UIState update. Nil fields are left untouched.
type UIPatch struct {
	ActiveScreen *Screen
	GridMode     *GridMode
	RangeMode    *RangeMode
	AnchorDate   *string
	GanttDate    *string
	WeekDate     *string
	WeekWorker   *string
	FilterText   *string
}

// Apply returns a copy of s with the non-nil patch fields applied.
func (p UIPatch) Apply(s UIState) UIState {
	if p.ActiveScreen != nil {
		s.ActiveScreen = *p.ActiveScreen
	}
	if p.GridMode != nil {
		s.GridMode = *p.GridMode
	}
	if p.RangeMode != nil {
		s.RangeMode = *p.RangeMode
	}
	if p.AnchorDate != nil {
		s.AnchorDate = *p.AnchorDate
	}
	if p.GanttDate != nil {
		s.GanttDate = *p.GanttDate
	}
	if p.WeekDate != nil {
		s.WeekDate = *p.WeekDate
	}
	if p.WeekWorker != nil {
		s.WeekWorker = *p.WeekWorker
	}
	if p.FilterText != nil {
		s.FilterText = *p.FilterText
	}
	return s
}
