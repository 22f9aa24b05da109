// Package motor controls the sensor's tilt motor through a small native-SDK
// boundary: enumerate a device serial by index, create a motor from it, and
// command absolute tilt positions in the motor's signed integer units.
package motor

// TiltMax bounds tilt positions at +/-15000 native units end to end.
const TiltMax = 15000

// ClampTilt bounds v to [-TiltMax, TiltMax].
func ClampTilt(v int) int {
	if v > TiltMax {
		return TiltMax
	}
	if v < -TiltMax {
		return -TiltMax
	}
	return v
}

// A Driver enumerates and creates motors from the native SDK.
type Driver interface {
	// DeviceSerial returns the serial of the index-th attached device.
	DeviceSerial(index int) (string, error)

	// NewMotor creates a motor handle for the device with the given serial.
	NewMotor(serial string) (Motor, error)
}

// A Motor is an open tilt motor handle.
type Motor interface {
	// SetPosition commands an absolute tilt. Callers must pass positions
	// within [-TiltMax, TiltMax].
	SetPosition(pos int) error

	Close() error
}
