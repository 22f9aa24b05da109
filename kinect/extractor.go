package kinect

import (
	"github.com/pkg/errors"

	"go.viam.com/fluidwall/openni"
	"go.viam.com/fluidwall/rimage"
)

// colorRange is the full span of a plane's byte intensity.
const colorRange = 255

// An extractor turns one raw depth+label frame into the two output planes.
// It owns two scratch planes so the per-frame path allocates nothing.
type extractor struct {
	mode     openni.MapMode
	depthTmp *rimage.Plane
	usersTmp *rimage.Plane
}

func newExtractor(mode openni.MapMode) *extractor {
	return &extractor{
		mode:     mode,
		depthTmp: rimage.NewPlane(mode.Width, mode.Height),
		usersTmp: rimage.NewPlane(mode.Width, mode.Height),
	}
}

// extract applies the cutoff and intensity encoding per pixel, then mirrors
// horizontally into the output planes. Depth intensity is the negated
// depth-times-scale product narrowed to a byte, which wraps modulo 256 and
// yields a banded pseudo-color over nearby depth slices; pixels at or
// beyond the cutoff are 0 in both planes.
func (e *extractor) extract(
	depthRaw, labels []uint16,
	cutoffMM int,
	colorPerMM float64,
	depthOut, usersOut *rimage.Plane,
) error {
	n := e.mode.NumPixels()
	if len(depthRaw) != n || len(labels) != n {
		return errors.Errorf("frame buffers have %d/%d samples, want %d", len(depthRaw), len(labels), n)
	}

	depthTmp := e.depthTmp.Data()
	usersTmp := e.usersTmp.Data()
	for i := 0; i < n; i++ {
		d := depthRaw[i]
		if int(d) < cutoffMM {
			// Negate in the integer domain; the byte conversion wraps.
			depthTmp[i] = uint8(-int32(float64(d) * colorPerMM))
			usersTmp[i] = uint8(labels[i])
		} else {
			depthTmp[i] = 0
			usersTmp[i] = 0
		}
	}

	if err := e.depthTmp.MirrorHorizontalInto(depthOut); err != nil {
		return err
	}
	return e.usersTmp.MirrorHorizontalInto(usersOut)
}
