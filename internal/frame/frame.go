// Package frame holds the pixel-data types that flow through the capture
// and inference pipeline. A RawFrame is exclusively owned by the pipeline
// for the duration of one conversion call and is never mutated.
package frame

import "time"

// Format identifies the pixel layout of a RawFrame.
type Format int

const (
	// FormatYUV420 is a planar frame: a full-resolution luma plane plus a
	// half-resolution interleaved chroma plane (Cb,Cr pairs).
	FormatYUV420 Format = iota
	// FormatBGRA is a packed frame: 4 bytes per pixel in B,G,R,A order.
	FormatBGRA
)

func (f Format) String() string {
	switch f {
	case FormatYUV420:
		return "yuv420"
	case FormatBGRA:
		return "bgra"
	default:
		return "unknown"
	}
}

// Plane is one pixel plane of a sensor frame. RowStride is the byte
// distance between vertically adjacent samples; PixelStride the byte
// distance between horizontally adjacent ones. Both may exceed the packed
// minimum when the source pads rows.
type Plane struct {
	Data        []byte
	RowStride   int
	PixelStride int
}

// RawFrame is a captured sensor frame before colorspace conversion.
//
// FormatYUV420 carries two planes: Planes[0] luma, Planes[1] interleaved
// chroma. FormatBGRA carries a single packed plane. Orientation is the
// clockwise rotation in degrees (0/90/180/270) needed to display the frame
// upright; it applies to the planar path only, packed sources deliver
// already-oriented pixels.
type RawFrame struct {
	Format      Format
	Planes      []Plane
	Width       int
	Height      int
	Orientation int
	CapturedAt  time.Time
}

// EncodedFrame is a compressed image ready for network transfer, tagged
// with the capture timestamp of the frame it came from.
type EncodedFrame struct {
	Data       []byte
	CapturedAt time.Time
}
