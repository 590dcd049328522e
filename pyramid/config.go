// Package pyramid implements the Pyramid Feature Histogram similarity measure (section 4.I):
// a fast, multi-resolution histogram-intersection comparison between two feature clouds.
package pyramid

import "github.com/pkg/errors"

// DimRange is a per-dimension (min, max) bound, used for both the observed input_range and
// the user-chosen target_range that feature coordinates are affinely rescaled into.
type DimRange struct {
	Min, Max float64
}

// Span returns Max - Min.
func (d DimRange) Span() float64 {
	return d.Max - d.Min
}

// Config holds a pyramid's construction parameters (section 6's configuration surface).
type Config struct {
	InputRange  []DimRange
	TargetRange []DimRange
}

// Validate checks the Invalid-configuration error kind of section 7.
func (c Config) Validate() error {
	if len(c.InputRange) == 0 {
		return errors.New("pyramid: input_range must be non-empty")
	}
	if len(c.TargetRange) != len(c.InputRange) {
		return errors.Errorf("pyramid: target_range length %d does not match input_range length %d", len(c.TargetRange), len(c.InputRange))
	}
	for i, r := range c.InputRange {
		if r.Span() <= 0 {
			return errors.Errorf("pyramid: input_range[%d] has non-positive span", i)
		}
	}
	for i, r := range c.TargetRange {
		if r.Span() <= 0 {
			return errors.Errorf("pyramid: target_range[%d] has non-positive span", i)
		}
	}
	return nil
}
