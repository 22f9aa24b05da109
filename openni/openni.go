// Package openni wraps an OpenNI-style depth SDK behind small interfaces and
// owns the lifecycle of a sensing session: a sensor context with one depth
// node and one user-segmentation node, generating synchronized frames.
//
// The native SDK is an inbound dependency implemented out of tree; the fake
// subpackage implements the same interfaces for tests.
package openni

import "context"

// SampleConfigPath is the conventional location of the SDK's sample
// configuration resource, resolved relative to the process working
// directory. Its contents are opaque to this package.
const SampleConfigPath = "Data/SamplesConfig.xml"

// UserID identifies a tracked user. 0 is reserved for background.
type UserID uint16

// MapMode describes the resolution and rate of a generator node.
type MapMode struct {
	Width  int
	Height int
	FPS    int
}

// VGA30 is the map mode the session always configures: 640x480 at 30 fps.
var VGA30 = MapMode{Width: 640, Height: 480, FPS: 30}

// NumPixels returns the per-frame sample count.
func (m MapMode) NumPixels() int {
	return m.Width * m.Height
}

// A Driver creates sensor contexts from the native SDK.
type Driver interface {
	// NewContext initializes the SDK from the configuration resource at
	// configPath.
	NewContext(configPath string) (Context, error)
}

// A Context is an initialized sensor context that produces generator nodes
// and synchronized frames.
type Context interface {
	NewDepthNode() (DepthNode, error)
	NewUserNode() (UserNode, error)

	// StartGenerating starts all created nodes.
	StartGenerating() error

	// WaitNext blocks until the next synchronized frame is available.
	WaitNext(ctx context.Context) error

	// Shutdown tears the context and its nodes down.
	Shutdown() error
}

// A DepthNode produces one uint16 depth sample, in millimeters, per pixel.
type DepthNode interface {
	SetMapMode(mode MapMode) error

	// DepthBuffer returns the current frame's depth samples in row-major
	// order. The view is valid only until the next WaitNext call.
	DepthBuffer() []uint16
}

// A UserNode produces one uint16 user label per pixel and reports user
// appearance events.
type UserNode interface {
	// RegisterCallbacks routes user appeared/disappeared notifications to
	// the sink. The SDK delivers them on threads of its own choosing.
	RegisterCallbacks(sink EventSink) error

	// LabelBuffer returns the current frame's user labels in row-major
	// order, 0 for background. Valid only until the next WaitNext call.
	LabelBuffer() []uint16

	// TrackedUsers returns up to max currently tracked user ids.
	TrackedUsers(max int) ([]UserID, error)
}
