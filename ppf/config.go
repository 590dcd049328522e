// Package ppf implements Point-Pair-Feature hash search (section 4.J) and the PPF-based
// coarse registration algorithm built on top of it (section 4.K).
package ppf

import "github.com/pkg/errors"

// HashConfig holds the PPF hash table's discretization parameters.
type HashConfig struct {
	AngleDiscretizationStep    float64
	DistanceDiscretizationStep float64
}

// DefaultHashConfig returns conventional discretization defaults: 15-degree angle steps and
// 0.05 distance steps.
func DefaultHashConfig() HashConfig {
	return HashConfig{
		AngleDiscretizationStep:    15 * (3.141592653589793 / 180),
		DistanceDiscretizationStep: 0.05,
	}
}

// Validate checks the Invalid-configuration error kind of section 7.
func (c HashConfig) Validate() error {
	if c.AngleDiscretizationStep <= 0 {
		return errors.Errorf("ppf: angle_discretization_step must be positive, got %v", c.AngleDiscretizationStep)
	}
	if c.DistanceDiscretizationStep <= 0 {
		return errors.Errorf("ppf: distance_discretization_step must be positive, got %v", c.DistanceDiscretizationStep)
	}
	return nil
}

// RegistrationConfig holds PPF registration's parameters (section 4.K).
type RegistrationConfig struct {
	// SceneReferenceSamplingRate keeps every rho-th scene point as a reference point.
	SceneReferenceSamplingRate int
	PositionClusteringThreshold float64
	RotationClusteringThreshold float64
	Hash                        HashConfig
}

// DefaultRegistrationConfig returns conventional defaults.
func DefaultRegistrationConfig() RegistrationConfig {
	return RegistrationConfig{
		SceneReferenceSamplingRate:  5,
		PositionClusteringThreshold: 0.1,
		RotationClusteringThreshold: 15 * (3.141592653589793 / 180),
		Hash:                        DefaultHashConfig(),
	}
}

// Validate checks the Invalid-configuration error kind of section 7.
func (c RegistrationConfig) Validate() error {
	if c.SceneReferenceSamplingRate <= 0 {
		return errors.Errorf("ppf: scene_reference_sampling_rate must be positive, got %d", c.SceneReferenceSamplingRate)
	}
	if c.PositionClusteringThreshold <= 0 {
		return errors.Errorf("ppf: position_clustering_threshold must be positive, got %v", c.PositionClusteringThreshold)
	}
	if c.RotationClusteringThreshold <= 0 {
		return errors.Errorf("ppf: rotation_clustering_threshold must be positive, got %v", c.RotationClusteringThreshold)
	}
	return c.Hash.Validate()
}
