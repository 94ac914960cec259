package rules

import (
	"fmt"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

// Config holds the static business constraints. It is not part of record data.
type Config struct {
	BusinessStart string           `mapstructure:"business_start" yaml:"business_start" validate:"required,clock"`
	BusinessEnd   string           `mapstructure:"business_end" yaml:"business_end" validate:"required,clock"`
	TimeStep      int              `mapstructure:"time_step" yaml:"time_step" validate:"gt=0,lte=720"`
	AllowOverlap  bool             `mapstructure:"allow_overlap" yaml:"allow_overlap"`
	RoundMode     domain.RoundMode `mapstructure:"round_mode" yaml:"round_mode" validate:"oneof=floor ceil round"`
}

// DefaultConfig returns the standard shop-floor window: 08:30-18:30 in
// 30 minute steps, overlaps rejected, times rounded down.
func DefaultConfig() Config {
	return Config{
		BusinessStart: "08:30",
		BusinessEnd:   "18:30",
		TimeStep:      30,
		AllowOverlap:  false,
		RoundMode:     domain.RoundFloor,
	}
}

// CheckWindow verifies the cross-field constraint the tags cannot express.
func (c Config) CheckWindow() error {
	start := domain.TimeToMinutes(c.BusinessStart)
	end := domain.TimeToMinutes(c.BusinessEnd)
	if start < 0 || end < 0 {
		return fmt.Errorf("business hours must be HH:MM (got %q-%q)", c.BusinessStart, c.BusinessEnd)
	}
	if start >= end {
		return fmt.Errorf("business_start %s must be before business_end %s", c.BusinessStart, c.BusinessEnd)
	}
	return nil
}
