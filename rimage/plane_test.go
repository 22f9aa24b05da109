package rimage

import (
	"testing"

	"go.viam.com/test"
)

func TestPlaneBasics(t *testing.T) {
	p := NewPlane(640, 480)
	test.That(t, p.Width(), test.ShouldEqual, 640)
	test.That(t, p.Height(), test.ShouldEqual, 480)
	test.That(t, p.Cols(), test.ShouldEqual, 640)
	test.That(t, p.Rows(), test.ShouldEqual, 480)
	test.That(t, len(p.Data()), test.ShouldEqual, 640*480)

	test.That(t, p.In(0, 0), test.ShouldBeTrue)
	test.That(t, p.In(639, 479), test.ShouldBeTrue)
	test.That(t, p.In(640, 0), test.ShouldBeFalse)
	test.That(t, p.In(0, -1), test.ShouldBeFalse)

	p.Set(3, 2, 77)
	test.That(t, p.Get(3, 2), test.ShouldEqual, 77)
	// row-major: (3, 2) is index 2*640+3
	test.That(t, p.Data()[2*640+3], test.ShouldEqual, 77)

	p.SetIdx(5, 9)
	test.That(t, p.Get(5, 0), test.ShouldEqual, 9)

	p.Zero()
	test.That(t, p.Get(3, 2), test.ShouldEqual, 0)
	test.That(t, p.Get(5, 0), test.ShouldEqual, 0)
}

func TestPlaneMirrorHorizontal(t *testing.T) {
	p := NewPlane(4, 2)
	for i, v := range []uint8{1, 2, 3, 4, 5, 6, 7, 8} {
		p.SetIdx(i, v)
	}

	dst := NewPlane(4, 2)
	test.That(t, p.MirrorHorizontalInto(dst), test.ShouldBeNil)
	test.That(t, dst.Data(), test.ShouldResemble, []uint8{4, 3, 2, 1, 8, 7, 6, 5})

	// the source is untouched
	test.That(t, p.Data(), test.ShouldResemble, []uint8{1, 2, 3, 4, 5, 6, 7, 8})

	bad := NewPlane(3, 2)
	test.That(t, p.MirrorHorizontalInto(bad), test.ShouldNotBeNil)
}

func TestPlaneCopyTo(t *testing.T) {
	p := NewPlane(2, 2)
	p.Set(1, 0, 42)

	dst := NewPlane(2, 2)
	test.That(t, p.CopyTo(dst), test.ShouldBeNil)
	test.That(t, dst.Get(1, 0), test.ShouldEqual, 42)

	dst.Set(1, 0, 7)
	test.That(t, p.Get(1, 0), test.ShouldEqual, 42)

	bad := NewPlane(2, 3)
	test.That(t, p.CopyTo(bad), test.ShouldNotBeNil)
}

func TestPlaneToGray(t *testing.T) {
	p := NewPlane(3, 2)
	p.Set(2, 1, 200)

	img := p.ToGray()
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 3)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 2)
	test.That(t, img.GrayAt(2, 1).Y, test.ShouldEqual, 200)

	// the view borrows the plane's storage
	p.Set(0, 0, 11)
	test.That(t, img.GrayAt(0, 0).Y, test.ShouldEqual, 11)
}
