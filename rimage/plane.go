// Package rimage defines the image containers the sensing pipeline writes into.
package rimage

import (
	"image"

	"github.com/pkg/errors"
)

// A Plane is an 8-bit single-channel image stored row-major. The frame
// pipeline fills one plane per output channel each tick and reuses the
// backing storage across ticks.
type Plane struct {
	width  int
	height int
	data   []uint8
}

// NewPlane returns a zeroed width x height plane.
func NewPlane(width, height int) *Plane {
	return &Plane{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

func (p *Plane) Width() int {
	return p.width
}

func (p *Plane) Height() int {
	return p.height
}

func (p *Plane) Cols() int {
	return p.width
}

func (p *Plane) Rows() int {
	return p.height
}

// In returns whether the given coordinates fall inside the plane.
func (p *Plane) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.width && y < p.height
}

func (p *Plane) kxy(x, y int) int {
	return (y * p.width) + x
}

// Get returns the value at (x, y).
func (p *Plane) Get(x, y int) uint8 {
	return p.data[p.kxy(x, y)]
}

// Set stores v at (x, y).
func (p *Plane) Set(x, y int, v uint8) {
	p.data[p.kxy(x, y)] = v
}

// SetIdx stores v at row-major index i.
func (p *Plane) SetIdx(i int, v uint8) {
	p.data[i] = v
}

// Data returns the row-major backing storage. The slice is borrowed; it is
// overwritten in place by whoever owns the plane.
func (p *Plane) Data() []uint8 {
	return p.data
}

// Zero sets every pixel to 0.
func (p *Plane) Zero() {
	for i := range p.data {
		p.data[i] = 0
	}
}

// CopyTo copies the plane's pixels into dst, which must have the same
// dimensions.
func (p *Plane) CopyTo(dst *Plane) error {
	if dst.width != p.width || dst.height != p.height {
		return errors.Errorf("cannot copy %dx%d plane into %dx%d plane",
			p.width, p.height, dst.width, dst.height)
	}
	copy(dst.data, p.data)
	return nil
}

// MirrorHorizontalInto writes the horizontal mirror of the plane into dst
// (column x becomes column width-1-x), without allocating. dst must have the
// same dimensions and must not alias the source.
func (p *Plane) MirrorHorizontalInto(dst *Plane) error {
	if dst.width != p.width || dst.height != p.height {
		return errors.Errorf("cannot mirror %dx%d plane into %dx%d plane",
			p.width, p.height, dst.width, dst.height)
	}
	for y := 0; y < p.height; y++ {
		row := p.data[y*p.width : (y+1)*p.width]
		dstRow := dst.data[y*p.width : (y+1)*p.width]
		for x, v := range row {
			dstRow[p.width-1-x] = v
		}
	}
	return nil
}

// ToGray returns the plane as a grayscale image sharing the same backing
// storage. The view is invalidated whenever the plane is rewritten.
func (p *Plane) ToGray() *image.Gray {
	return &image.Gray{
		Pix:    p.data,
		Stride: p.width,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}
