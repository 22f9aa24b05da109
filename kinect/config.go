package kinect

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// Config holds the knobs of a sensing controller. Immutable after
// construction; runtime adjustments go through the controller itself.
type Config struct {
	// MaxUsers is how many tracked users the session asks the SDK for.
	MaxUsers int `json:"max_users"`

	// MaxIterations is how many frames a session serves before the
	// supervisor bounces it to clear accumulated driver state.
	MaxIterations int `json:"max_iterations"`

	// DepthCutoffMM is the initial depth cutoff in millimeters; samples at
	// or beyond it render as background.
	DepthCutoffMM int `json:"depth_cutoff_mm"`

	// InitialTilt is the motor tilt commanded at startup, clamped to
	// [-motor.TiltMax, motor.TiltMax].
	InitialTilt int `json:"initial_tilt"`
}

// DefaultConfig returns the stock configuration: 6 users, a session restart
// every 10000 frames, a 6 meter cutoff, and a 10000-unit upward tilt.
func DefaultConfig() Config {
	return Config{
		MaxUsers:      6,
		MaxIterations: 10000,
		DepthCutoffMM: 6000,
		InitialTilt:   10000,
	}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	if c.MaxUsers < 1 {
		return goutils.NewConfigValidationError(path, errors.New("max_users must be at least 1"))
	}
	if c.MaxIterations < 1 {
		return goutils.NewConfigValidationError(path, errors.New("max_iterations must be at least 1"))
	}
	if c.DepthCutoffMM < 1 {
		return goutils.NewConfigValidationError(path, errors.New("depth_cutoff_mm must be positive"))
	}
	return nil
}
