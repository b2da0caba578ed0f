package suggest

import (
	"fmt"

	"github.com/cognicore/seolens/pkg/seolens/internalerr"
)

// Mode selects a threshold column
type Mode int

const (
	Main Mode = iota
	Secondary
)

func (m Mode) String() string {
	switch m {
	case Main:
		return "main"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "main" or "secondary".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "main":
		return Main, nil
	case "secondary":
		return Secondary, nil
	}
	return 0, fmt.Errorf("mode %q: %w", s, internalerr.ErrInvalidInput)
}

// Thresholds maps document word counts to minimum final scores. A document
// with fewer words than Breakpoints[i] uses level i; one at or past the last
// breakpoint uses the final level.
type Thresholds struct {
	Breakpoints []int     `yaml:"breakpoints"`
	Main        []float64 `yaml:"main"`
	Secondary   []float64 `yaml:"secondary"`
}

// DefaultThresholds returns the standard table
func DefaultThresholds() Thresholds {
	return Thresholds{
		Breakpoints: []int{200, 400, 700, 1000},
		Main:        []float64{15, 20, 25, 30, 35},
		Secondary:   []float64{10, 15, 20, 25, 30},
	}
}

// For returns the threshold for mode at wordCount.
func (t Thresholds) For(mode Mode, wordCount int) float64 {
	levels := t.Main
	if mode == Secondary {
		levels = t.Secondary
	}
	if len(levels) == 0 {
		return 0
	}

	i := 0
	for i < len(t.Breakpoints) && wordCount >= t.Breakpoints[i] {
		i++
	}
	if i >= len(levels) {
		i = len(levels) - 1
	}
	return levels[i]
}

// Validate checks the table shape: ascending breakpoints and one more level
// than breakpoints per column.
func (t Thresholds) Validate() error {
	for i := 1; i < len(t.Breakpoints); i++ {
		if t.Breakpoints[i] <= t.Breakpoints[i-1] {
			return fmt.Errorf("threshold breakpoints not ascending at %d: %w", i, internalerr.ErrInvalidConfig)
		}
	}
	want := len(t.Breakpoints) + 1
	if len(t.Main) != want {
		return fmt.Errorf("main thresholds: want %d levels, got %d: %w", want, len(t.Main), internalerr.ErrInvalidConfig)
	}
	if len(t.Secondary) != want {
		return fmt.Errorf("secondary thresholds: want %d levels, got %d: %w", want, len(t.Secondary), internalerr.ErrInvalidConfig)
	}
	return nil
}
