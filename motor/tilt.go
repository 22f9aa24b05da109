package motor

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// A TiltController owns one motor handle and tracks the commanded tilt. The
// tracked position is always within [-TiltMax, TiltMax] and is updated even
// when the motor rejects a command, so a later successful command converges
// on the intended position.
type TiltController struct {
	motor   Motor
	logger  golog.Logger
	initial int
	current int
}

// OpenTilt acquires the motor of device 0 and commands the clamped initial
// tilt. A failed initial command is logged and reported but leaves the
// controller usable.
func OpenTilt(driver Driver, initial int, logger golog.Logger) (*TiltController, error) {
	serial, err := driver.DeviceSerial(0)
	if err != nil {
		return nil, errors.Wrap(err, "enumerating tilt motor device")
	}
	m, err := driver.NewMotor(serial)
	if err != nil {
		return nil, errors.Wrapf(err, "creating tilt motor %q", serial)
	}
	t := &TiltController{motor: m, logger: logger}
	if err := t.SetInitial(initial); err != nil {
		t.logger.Errorw("initial tilt command failed", "error", err)
	}
	return t, nil
}

// CurrentTilt returns the last commanded tilt position.
func (t *TiltController) CurrentTilt() int {
	return t.current
}

// InitialTilt returns the position Reset returns to.
func (t *TiltController) InitialTilt() int {
	return t.initial
}

// SetInitial stores the clamped angle as both the initial and current tilt
// and commands the motor.
func (t *TiltController) SetInitial(angle int) error {
	angle = ClampTilt(angle)
	t.initial = angle
	t.current = angle
	return t.command()
}

// Nudge moves the tilt by delta, clamped, and commands the motor.
func (t *TiltController) Nudge(delta int) error {
	t.current = ClampTilt(t.current + delta)
	return t.command()
}

// Reset returns the tilt to the initial position and commands the motor.
func (t *TiltController) Reset() error {
	t.current = t.initial
	return t.command()
}

func (t *TiltController) command() error {
	if t.motor == nil {
		return errors.New("tilt motor is closed")
	}
	if err := t.motor.SetPosition(t.current); err != nil {
		return errors.Wrapf(err, "commanding tilt to %d", t.current)
	}
	return nil
}

// Close releases the motor handle. Safe to call twice.
func (t *TiltController) Close() error {
	if t.motor == nil {
		return nil
	}
	err := t.motor.Close()
	t.motor = nil
	return err
}
