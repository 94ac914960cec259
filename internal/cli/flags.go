package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/spf13/pflag"
)

// enumValue is a string flag restricted to a fixed set of values.
type enumValue[T ~string] struct {
	target  *T
	allowed []T
}

var _ pflag.Value = (*enumValue[domain.GridMode])(nil)

func newEnumValue[T ~string](target *T, def T, allowed ...T) *enumValue[T] {
	*target = def
	return &enumValue[T]{target: target, allowed: allowed}
}

func (e *enumValue[T]) String() string { return string(*e.target) }

func (e *enumValue[T]) Set(s string) error {
	for _, a := range e.allowed {
		if strings.EqualFold(string(a), s) {
			*e.target = a
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", e.Type())
}

func (e *enumValue[T]) Type() string {
	names := make([]string, len(e.allowed))
	for i, a := range e.allowed {
		names[i] = string(a)
	}
	return strings.Join(names, "|")
}

func gridModeFlag(fs *pflag.FlagSet, target *domain.GridMode, def domain.GridMode) {
	fs.Var(newEnumValue(target, def, domain.GridByProcess, domain.GridByWorker), "mode", "Grid rows")
}

func rangeModeFlag(fs *pflag.FlagSet, target *domain.RangeMode, def domain.RangeMode) {
	fs.Var(newEnumValue(target, def, domain.RangeWeek, domain.RangeMonth), "range", "Date range")
}

// exportFormat selects the export encoding.
type exportFormat string

const (
	formatCSV exportFormat = "csv"
	formatICS exportFormat = "ics"
)

func exportFormatFlag(fs *pflag.FlagSet, target *exportFormat) {
	fs.Var(newEnumValue(target, formatCSV, formatCSV, formatICS), "format", "Output format")
}
