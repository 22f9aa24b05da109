package motor_test

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/fluidwall/motor"
	fakemotor "go.viam.com/fluidwall/motor/fake"
)

func TestClampTilt(t *testing.T) {
	test.That(t, motor.ClampTilt(0), test.ShouldEqual, 0)
	test.That(t, motor.ClampTilt(15000), test.ShouldEqual, 15000)
	test.That(t, motor.ClampTilt(15001), test.ShouldEqual, 15000)
	test.That(t, motor.ClampTilt(-15001), test.ShouldEqual, -15000)
	test.That(t, motor.ClampTilt(-200), test.ShouldEqual, -200)
}

func TestTiltClampSequence(t *testing.T) {
	logger := golog.NewTestLogger(t)
	driver := fakemotor.NewDriver()

	tilt, err := motor.OpenTilt(driver, 20000, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tilt.CurrentTilt(), test.ShouldEqual, 15000)
	test.That(t, tilt.InitialTilt(), test.ShouldEqual, 15000)

	test.That(t, tilt.Nudge(100), test.ShouldBeNil)
	test.That(t, tilt.CurrentTilt(), test.ShouldEqual, 15000)

	test.That(t, tilt.Nudge(-40000), test.ShouldBeNil)
	test.That(t, tilt.CurrentTilt(), test.ShouldEqual, -15000)

	test.That(t, tilt.Reset(), test.ShouldBeNil)
	test.That(t, tilt.CurrentTilt(), test.ShouldEqual, 15000)

	motors := driver.Motors()
	test.That(t, motors, test.ShouldHaveLength, 1)
	test.That(t, motors[0].Positions(), test.ShouldResemble, []int{15000, 15000, -15000, 15000})
}

func TestTiltNudgeRoundTrip(t *testing.T) {
	logger := golog.NewTestLogger(t)
	tilt, err := motor.OpenTilt(fakemotor.NewDriver(), 2000, logger)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, tilt.Nudge(700), test.ShouldBeNil)
	test.That(t, tilt.Nudge(-700), test.ShouldBeNil)
	test.That(t, tilt.CurrentTilt(), test.ShouldEqual, 2000)
}

func TestTiltCommandFailure(t *testing.T) {
	logger := golog.NewTestLogger(t)
	driver := fakemotor.NewDriver()
	tilt, err := motor.OpenTilt(driver, 0, logger)
	test.That(t, err, test.ShouldBeNil)

	driver.Motors()[0].SetCommandError(errors.New("motor rejected command"))
	err = tilt.Nudge(500)
	test.That(t, err, test.ShouldNotBeNil)
	// the tracked position still moves so a later command converges
	test.That(t, tilt.CurrentTilt(), test.ShouldEqual, 500)

	driver.Motors()[0].SetCommandError(nil)
	test.That(t, tilt.Reset(), test.ShouldBeNil)
	test.That(t, tilt.CurrentTilt(), test.ShouldEqual, 0)
}

func TestTiltOpenFailures(t *testing.T) {
	logger := golog.NewTestLogger(t)

	driver := fakemotor.NewDriver()
	driver.SerialErr = errors.New("no devices attached")
	_, err := motor.OpenTilt(driver, 0, logger)
	test.That(t, err, test.ShouldNotBeNil)

	driver = fakemotor.NewDriver()
	driver.CreateErr = errors.New("device busy")
	_, err = motor.OpenTilt(driver, 0, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTiltClose(t *testing.T) {
	logger := golog.NewTestLogger(t)
	driver := fakemotor.NewDriver()
	tilt, err := motor.OpenTilt(driver, 0, logger)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, tilt.Close(), test.ShouldBeNil)
	test.That(t, driver.Motors()[0].Closed(), test.ShouldBeTrue)
	test.That(t, tilt.Close(), test.ShouldBeNil)

	test.That(t, tilt.Nudge(1), test.ShouldNotBeNil)
}
