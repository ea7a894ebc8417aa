// Package encode compresses converted bitmaps for network transfer.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"vision-scout/internal/frame"
)

// DefaultQuality favors speed and small payloads over fidelity; the image
// is consumed by a remote model, not a human.
const DefaultQuality = 75

// Encoder compresses bitmaps to JPEG at a fixed quality.
type Encoder struct {
	quality int
}

// NewEncoder returns an encoder at the given JPEG quality, clamped to
// [1,100]. Zero selects DefaultQuality.
func NewEncoder(quality int) Encoder {
	switch {
	case quality == 0:
		quality = DefaultQuality
	case quality < 1:
		quality = 1
	case quality > 100:
		quality = 100
	}
	return Encoder{quality: quality}
}

// Quality returns the configured JPEG quality.
func (e Encoder) Quality() int { return e.quality }

// Encode compresses img into a transport-ready buffer tagged with the
// originating capture timestamp.
func (e Encoder) Encode(img image.Image, capturedAt time.Time) (frame.EncodedFrame, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return frame.EncodedFrame{}, fmt.Errorf("encode: %w", err)
	}
	return frame.EncodedFrame{Data: buf.Bytes(), CapturedAt: capturedAt}, nil
}
