package kinect

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/fluidwall/openni"
	"go.viam.com/fluidwall/rimage"
)

func TestExtractorEncoding(t *testing.T) {
	mode := openni.MapMode{Width: 4, Height: 1, FPS: 30}
	ext := newExtractor(mode)
	depthOut := rimage.NewPlane(4, 1)
	usersOut := rimage.NewPlane(4, 1)

	colorPerMM := float64(colorRange) / 6000.0
	depth := []uint16{1000, 6000, 5999, 0}
	labels := []uint16{3, 3, 0, 0}

	test.That(t, ext.extract(depth, labels, 6000, colorPerMM, depthOut, usersOut), test.ShouldBeNil)

	// mirrored: raw index i lands at width-1-i.
	// 1000 * (255/6000) = 42.5 -> 42; the negated byte wraps to 214.
	test.That(t, depthOut.Get(3, 0), test.ShouldEqual, 214)
	test.That(t, usersOut.Get(3, 0), test.ShouldEqual, 3)

	// at the cutoff exactly is background
	test.That(t, depthOut.Get(2, 0), test.ShouldEqual, 0)
	test.That(t, usersOut.Get(2, 0), test.ShouldEqual, 0)

	// 5999 * 0.0425 = 254.9575 -> 254; wraps to 2
	test.That(t, depthOut.Get(1, 0), test.ShouldEqual, 2)

	// zero depth encodes to zero
	test.That(t, depthOut.Get(0, 0), test.ShouldEqual, 0)
}

func TestExtractorNonPositiveCutoff(t *testing.T) {
	mode := openni.MapMode{Width: 2, Height: 2, FPS: 30}
	ext := newExtractor(mode)
	depthOut := rimage.NewPlane(2, 2)
	usersOut := rimage.NewPlane(2, 2)

	depth := []uint16{1, 100, 4000, 9000}
	labels := []uint16{1, 2, 3, 4}

	for _, cutoff := range []int{0, -500} {
		test.That(t, ext.extract(depth, labels, cutoff, 0, depthOut, usersOut), test.ShouldBeNil)
		for _, v := range depthOut.Data() {
			test.That(t, v, test.ShouldEqual, 0)
		}
		for _, v := range usersOut.Data() {
			test.That(t, v, test.ShouldEqual, 0)
		}
	}
}

func TestExtractorBadBuffers(t *testing.T) {
	mode := openni.MapMode{Width: 4, Height: 2, FPS: 30}
	ext := newExtractor(mode)
	depthOut := rimage.NewPlane(4, 2)
	usersOut := rimage.NewPlane(4, 2)

	err := ext.extract(make([]uint16, 7), make([]uint16, 8), 6000, 1, depthOut, usersOut)
	test.That(t, err, test.ShouldNotBeNil)

	err = ext.extract(make([]uint16, 8), make([]uint16, 3), 6000, 1, depthOut, usersOut)
	test.That(t, err, test.ShouldNotBeNil)
}
