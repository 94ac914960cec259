package domain

type RangeMode string

const (
	RangeWeek  RangeMode = "week"
	RangeMonth RangeMode = "month"
)

type GridMode string

const (
	GridByProcess GridMode = "process"
	GridByWorker  GridMode = "worker"
)

type RoundMode string

const (
	RoundFloor RoundMode = "floor"
	RoundCeil  RoundMode = "ceil"
	RoundNear  RoundMode = "round"
)

type Screen string

const (
	ScreenGrid  Screen = "grid"
	ScreenGantt Screen = "gantt"
	ScreenWeek  Screen = "week"
)

// IDScheme selects how missing record identifiers are generated.
type IDScheme string

const (
	IDSchemeSequence IDScheme = "sequence"
	IDSchemeContent  IDScheme = "content"
)
