// Package fake implements a recording tilt motor for tests.
package fake

import (
	"sync"

	"go.viam.com/fluidwall/motor"
)

// A Driver is a motor.Driver handing out recording motors for one fake
// device. Failure fields, when set, are returned by the matching call.
type Driver struct {
	mu sync.Mutex

	SerialErr error
	CreateErr error

	motors []*Motor
}

// NewDriver returns a driver with one attached fake device.
func NewDriver() *Driver {
	return &Driver{}
}

// DeviceSerial implements motor.Driver.
func (d *Driver) DeviceSerial(index int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.SerialErr != nil {
		return "", d.SerialErr
	}
	return "fake-nui-motor-0", nil
}

// NewMotor implements motor.Driver.
func (d *Driver) NewMotor(serial string) (motor.Motor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.CreateErr != nil {
		return nil, d.CreateErr
	}
	m := &Motor{serial: serial}
	d.motors = append(d.motors, m)
	return m, nil
}

// Motors returns every motor created so far, in order.
func (d *Driver) Motors() []*Motor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Motor{}, d.motors...)
}

// A Motor records every commanded position.
type Motor struct {
	mu        sync.Mutex
	serial    string
	positions []int
	cmdErr    error
	closed    bool
}

// SetCommandError makes subsequent SetPosition calls fail with err.
func (m *Motor) SetCommandError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmdErr = err
}

// SetPosition implements motor.Motor. The position is recorded even when a
// command error is injected, mirroring a motor that received but rejected
// the command.
func (m *Motor) SetPosition(pos int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = append(m.positions, pos)
	return m.cmdErr
}

// Positions returns every commanded position, in order.
func (m *Motor) Positions() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int{}, m.positions...)
}

// Closed returns whether Close has been called.
func (m *Motor) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close implements motor.Motor.
func (m *Motor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
