// Package sacia implements Sample Consensus Initial Alignment (section 4.H): coarse
// alignment via feature-sampled RANSAC.
package sacia

import (
	"github.com/go-pcl/registration/logging"
	"github.com/pkg/errors"
)

// Config holds SAC-IA's parameters (section 6's configuration surface).
type Config struct {
	MinSampleDistance         float64
	MaxCorrespondenceDistance float64
	MaxIterations             int
	NumSamples                int
	RandomSeed                int64

	// MaxResampleTries bounds the greedy min-distance sampling of step 1 ("abort resample
	// after bounded tries"); it is not part of spec.md's configuration surface table but is
	// required to make that bound concrete rather than left to an unbounded loop.
	MaxResampleTries int

	Logger logging.Logger
}

// DefaultConfig returns SAC-IA's conventional defaults, with NumSamples = 3 per section 4.H.
func DefaultConfig() Config {
	return Config{
		MinSampleDistance:         0.05,
		MaxCorrespondenceDistance: 0.2,
		MaxIterations:             1000,
		NumSamples:                3,
		RandomSeed:                0,
		MaxResampleTries:          1000,
		Logger:                    logging.NewNoopLogger(),
	}
}

// Validate checks the Invalid-configuration error kind of section 7.
func (c Config) Validate() error {
	if c.MinSampleDistance < 0 {
		return errors.Errorf("sacia: min_sample_distance must be non-negative, got %v", c.MinSampleDistance)
	}
	if c.MaxCorrespondenceDistance <= 0 {
		return errors.Errorf("sacia: max_correspondence_distance must be positive, got %v", c.MaxCorrespondenceDistance)
	}
	if c.MaxIterations <= 0 {
		return errors.Errorf("sacia: max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.NumSamples < 3 {
		return errors.Errorf("sacia: num_samples must be at least 3, got %d", c.NumSamples)
	}
	if c.MaxResampleTries <= 0 {
		return errors.Errorf("sacia: max_resample_tries must be positive, got %d", c.MaxResampleTries)
	}
	return nil
}
