// Package convert turns raw sensor frames into RGB bitmaps ready for
// encoding. Conversion is CPU-bound and runs on pipeline worker
// goroutines, never on the UI thread.
package convert

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"vision-scout/internal/frame"
)

var (
	// ErrTruncatedPlane means a plane buffer is too short for the frame's
	// declared dimensions and strides. The frame is dropped; the pipeline
	// continues with the next admitted frame.
	ErrTruncatedPlane = errors.New("convert: plane data truncated")

	// ErrUnsupportedFormat means the capture format has no conversion path.
	ErrUnsupportedFormat = errors.New("convert: unsupported frame format")
)

// Convert decodes a raw frame into an RGB bitmap, applying the sensor
// orientation rotation on the planar path. Deterministic: the same frame
// always yields identical pixels.
func Convert(f frame.RawFrame) (*image.NRGBA, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("convert: invalid dimensions %dx%d", f.Width, f.Height)
	}

	switch f.Format {
	case frame.FormatYUV420:
		img, err := convertYUV420(f)
		if err != nil {
			return nil, err
		}
		return rotate(img, f.Orientation), nil
	case frame.FormatBGRA:
		// Packed capture is assumed already upright by the source, so no
		// rotation pass here.
		return convertBGRA(f)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// convertYUV420 walks every destination pixel, reading the luma sample
// directly and the chroma pair via halved row/column indices scaled by the
// chroma plane's strides. Indexing through both strides handles tightly
// packed and padded planes alike.
func convertYUV420(f frame.RawFrame) (*image.NRGBA, error) {
	if len(f.Planes) < 2 {
		return nil, fmt.Errorf("convert: yuv420 frame needs 2 planes, got %d", len(f.Planes))
	}
	luma, chroma := f.Planes[0], f.Planes[1]
	if luma.RowStride <= 0 || luma.PixelStride <= 0 || chroma.RowStride <= 0 || chroma.PixelStride <= 0 {
		return nil, fmt.Errorf("convert: non-positive stride")
	}

	// Highest index each loop will touch; checked once up front so the
	// per-pixel loop needs no bounds tests.
	maxLuma := (f.Height-1)*luma.RowStride + (f.Width-1)*luma.PixelStride
	maxChroma := ((f.Height-1)/2)*chroma.RowStride + ((f.Width-1)/2)*chroma.PixelStride + 1
	if maxLuma >= len(luma.Data) || maxChroma >= len(chroma.Data) {
		return nil, fmt.Errorf("%w: luma idx %d/len %d, chroma idx %d/len %d",
			ErrTruncatedPlane, maxLuma, len(luma.Data), maxChroma, len(chroma.Data))
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for row := 0; row < f.Height; row++ {
		lumaBase := row * luma.RowStride
		chromaBase := (row / 2) * chroma.RowStride
		dst := img.Pix[row*img.Stride:]

		for col := 0; col < f.Width; col++ {
			y := int(luma.Data[lumaBase+col*luma.PixelStride])
			ci := chromaBase + (col/2)*chroma.PixelStride
			cb := int(chroma.Data[ci])
			cr := int(chroma.Data[ci+1])

			r, g, b := yuvToRGB(y, cb, cr)
			di := col * 4
			dst[di+0] = r
			dst[di+1] = g
			dst[di+2] = b
			dst[di+3] = 0xff
		}
	}
	return img, nil
}

// yuvToRGB applies the ITU-R BT.601 integer approximation with per-channel
// clamping to [0,255].
func yuvToRGB(y, cb, cr int) (uint8, uint8, uint8) {
	c := y - 16
	d := cb - 128
	e := cr - 128

	r := (298*c + 409*e + 128) >> 8
	g := (298*c - 100*d - 208*e + 128) >> 8
	b := (298*c + 516*d + 128) >> 8

	return clamp8(r), clamp8(g), clamp8(b)
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// convertBGRA reinterprets a packed 4-byte-per-pixel frame directly into
// RGB, skipping the YUV arithmetic entirely.
func convertBGRA(f frame.RawFrame) (*image.NRGBA, error) {
	if len(f.Planes) < 1 {
		return nil, fmt.Errorf("convert: bgra frame needs 1 plane, got 0")
	}
	plane := f.Planes[0]
	if plane.PixelStride <= 0 || plane.RowStride <= 0 {
		return nil, fmt.Errorf("convert: non-positive stride")
	}
	maxIdx := (f.Height-1)*plane.RowStride + (f.Width-1)*plane.PixelStride + 3
	if maxIdx >= len(plane.Data) {
		return nil, fmt.Errorf("%w: bgra idx %d/len %d", ErrTruncatedPlane, maxIdx, len(plane.Data))
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for row := 0; row < f.Height; row++ {
		srcBase := row * plane.RowStride
		dst := img.Pix[row*img.Stride:]
		for col := 0; col < f.Width; col++ {
			si := srcBase + col*plane.PixelStride
			di := col * 4
			dst[di+0] = plane.Data[si+2] // R
			dst[di+1] = plane.Data[si+1] // G
			dst[di+2] = plane.Data[si+0] // B
			dst[di+3] = 0xff
		}
	}
	return img, nil
}

// rotate applies the sensor-orientation correction to a finished bitmap.
// Orientation is clockwise; imaging rotates counter-clockwise, hence the
// swapped 90/270 arms. 0 (and any unrecognized value) is a no-op.
func rotate(img *image.NRGBA, orientation int) *image.NRGBA {
	switch orientation {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
