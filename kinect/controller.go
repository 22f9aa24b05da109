// Package kinect ties the depth session, frame extraction, and tilt motor
// into one pull-driven controller. Each Update produces two pixel-aligned,
// horizontally mirrored byte planes from the same sensor frame: a
// depth-derived intensity plane and a tracked-user label plane.
package kinect

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/fluidwall/motor"
	"go.viam.com/fluidwall/openni"
	"go.viam.com/fluidwall/rimage"
)

// fpsLogEvery is how many successful updates pass between frame rate debug
// lines (10 seconds at the nominal 30 fps).
const fpsLogEvery = 300

// ErrNoMotor is returned by tilt operations when the motor could not be
// acquired. The frame path is unaffected.
var ErrNoMotor = errors.New("tilt motor not available")

// A Controller owns the device session, the output planes, and the tilt
// motor. It is single-threaded: exactly one caller invokes Update, reads
// planes, and issues control commands.
type Controller struct {
	cfg    Config
	logger golog.Logger
	sink   openni.EventSink
	clk    clock.Clock

	session     *openni.Session
	motorDriver motor.Driver
	tilt        *motor.TiltController
	ext         *extractor

	depthPlane *rimage.Plane
	usersPlane *rimage.Plane

	depthCutoffMM int
	colorPerMM    float64
	iterations    int
	fatalErr      error

	frameCount int
	lastRateAt time.Time
}

// NewController opens a session through sensorDriver and acquires the tilt
// motor through motorDriver. A nil sink logs user events through logger.
// Session init failures are fatal; a missing motor is reported and tilt
// operations then return ErrNoMotor.
func NewController(
	sensorDriver openni.Driver,
	motorDriver motor.Driver,
	cfg Config,
	sink openni.EventSink,
	logger golog.Logger,
) (*Controller, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = openni.NewLogSink(logger)
	}

	c := &Controller{
		cfg:         cfg,
		logger:      logger,
		sink:        sink,
		clk:         clock.New(),
		motorDriver: motorDriver,
	}
	c.setDepthCutoff(cfg.DepthCutoffMM)

	c.session = openni.NewSession(sensorDriver, sink, logger)
	if err := c.session.Open(); err != nil {
		return nil, err
	}
	c.openTilt()

	mode := c.session.MapMode()
	c.ext = newExtractor(mode)
	c.depthPlane = rimage.NewPlane(mode.Width, mode.Height)
	c.usersPlane = rimage.NewPlane(mode.Width, mode.Height)
	c.lastRateAt = c.clk.Now()
	return c, nil
}

// Update pulls one synchronized frame and refreshes the output planes,
// bouncing the session first if it has served its iteration budget. Wait
// failures are non-fatal and leave planes and the counter untouched; a
// failed session reopen is fatal and every later Update returns the same
// error until Close.
func (c *Controller) Update(ctx context.Context) error {
	if c.fatalErr != nil {
		return c.fatalErr
	}
	if c.iterations > c.cfg.MaxIterations {
		return c.reset(ctx)
	}
	return c.step(ctx)
}

func (c *Controller) step(ctx context.Context) error {
	if err := c.session.WaitNext(ctx); err != nil {
		return err
	}

	// Advisory only; a failure here must not fail the frame.
	if ids, err := c.session.TrackedUsers(c.cfg.MaxUsers); err != nil {
		c.logger.Debugw("tracked user query failed", "error", err)
	} else if len(ids) > 0 {
		c.logger.Debugw("tracked users", "count", len(ids))
	}

	if err := c.ext.extract(
		c.session.DepthBuffer(),
		c.session.UserLabelBuffer(),
		c.depthCutoffMM,
		c.colorPerMM,
		c.depthPlane,
		c.usersPlane,
	); err != nil {
		return err
	}

	c.iterations++
	c.meterFrame()
	return nil
}

// reset fully tears down the session and motor, reopens both, and pulls one
// frame. Long-running native sessions drift in memory and latency; a
// bounded-iteration bounce clears the accumulated state.
func (c *Controller) reset(ctx context.Context) error {
	c.logger.Infow("restarting device session", "iterations", c.iterations)

	if err := c.session.Close(); err != nil {
		c.logger.Errorw("session teardown during restart", "error", err)
	}
	if c.tilt != nil {
		if err := c.tilt.Close(); err != nil {
			c.logger.Errorw("motor teardown during restart", "error", err)
		}
		c.tilt = nil
	}
	c.iterations = 0

	if err := c.session.Open(); err != nil {
		c.fatalErr = err
		return err
	}
	c.openTilt()
	return c.step(ctx)
}

func (c *Controller) openTilt() {
	t, err := motor.OpenTilt(c.motorDriver, c.cfg.InitialTilt, c.logger)
	if err != nil {
		c.logger.Errorw("tilt motor unavailable", "error", err)
		return
	}
	c.tilt = t
}

// AdjustDepth moves the depth cutoff by delta millimeters and recomputes
// the color scale. Non-positive cutoffs are accepted; every sample then
// falls beyond the cutoff and the planes come out all zero.
func (c *Controller) AdjustDepth(delta int) {
	c.setDepthCutoff(c.depthCutoffMM + delta)
}

func (c *Controller) setDepthCutoff(cutoffMM int) {
	c.depthCutoffMM = cutoffMM
	if cutoffMM > 0 {
		c.colorPerMM = float64(colorRange) / float64(cutoffMM)
	} else {
		c.colorPerMM = 0
	}
}

// DepthCutoff returns the current cutoff in millimeters.
func (c *Controller) DepthCutoff() int {
	return c.depthCutoffMM
}

// AdjustTilt nudges the motor by delta native units, clamped end to end.
// Motor errors are reported and do not affect frame processing.
func (c *Controller) AdjustTilt(delta int) error {
	if c.tilt == nil {
		return ErrNoMotor
	}
	return c.tilt.Nudge(delta)
}

// ResetTilt returns the motor to the initial tilt.
func (c *Controller) ResetTilt() error {
	if c.tilt == nil {
		return ErrNoMotor
	}
	return c.tilt.Reset()
}

// DepthPlane returns the depth intensity plane. Borrowed; the next Update
// or Close invalidates it.
func (c *Controller) DepthPlane() *rimage.Plane {
	return c.depthPlane
}

// UsersPlane returns the user label plane. Borrowed; the next Update or
// Close invalidates it.
func (c *Controller) UsersPlane() *rimage.Plane {
	return c.usersPlane
}

// Iterations returns how many frames the current session has served.
func (c *Controller) Iterations() int {
	return c.iterations
}

// Close releases the device session and the motor. Safe to call twice and
// after a fatal error.
func (c *Controller) Close(ctx context.Context) error {
	var err error
	if c.session != nil {
		err = multierr.Combine(err, c.session.Close())
	}
	if c.tilt != nil {
		err = multierr.Combine(err, c.tilt.Close())
		c.tilt = nil
	}
	return err
}

func (c *Controller) meterFrame() {
	c.frameCount++
	if c.frameCount < fpsLogEvery {
		return
	}
	now := c.clk.Now()
	if elapsed := now.Sub(c.lastRateAt); elapsed > 0 {
		c.logger.Debugw("frame rate", "fps", float64(c.frameCount)/elapsed.Seconds())
	}
	c.frameCount = 0
	c.lastRateAt = now
}
