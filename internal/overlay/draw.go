package overlay

import (
	"image"
	"image/color"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"vision-scout/internal/geometry"
)

// Raster primitives for the overlay. Everything here blends src-over onto
// an *image.RGBA sized to the display rectangle.

func blendPx(dst *image.RGBA, x, y int, c color.NRGBA) {
	if !(image.Point{x, y}).In(dst.Bounds()) {
		return
	}
	if c.A == 0xff {
		dst.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 0xff})
		return
	}

	i := dst.PixOffset(x, y)
	a := uint32(c.A)
	inv := 255 - a
	dst.Pix[i+0] = uint8((uint32(c.R)*a + uint32(dst.Pix[i+0])*inv) / 255)
	dst.Pix[i+1] = uint8((uint32(c.G)*a + uint32(dst.Pix[i+1])*inv) / 255)
	dst.Pix[i+2] = uint8((uint32(c.B)*a + uint32(dst.Pix[i+2])*inv) / 255)
	if na := a + uint32(dst.Pix[i+3])*inv/255; na > 255 {
		dst.Pix[i+3] = 255
	} else {
		dst.Pix[i+3] = uint8(na)
	}
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			blendPx(dst, x, y, c)
		}
	}
}

// strokeRect draws an axis-aligned outline of the given width, growing
// inward from the rectangle edge.
func strokeRect(dst *image.RGBA, r geometry.Rect, c color.NRGBA, width int) {
	x1, y1 := int(math.Round(r.X1)), int(math.Round(r.Y1))
	x2, y2 := int(math.Round(r.X2)), int(math.Round(r.Y2))

	fillRect(dst, image.Rect(x1, y1, x2, y1+width), c)             // top
	fillRect(dst, image.Rect(x1, y2-width, x2, y2), c)             // bottom
	fillRect(dst, image.Rect(x1, y1+width, x1+width, y2-width), c) // left
	fillRect(dst, image.Rect(x2-width, y1+width, x2, y2-width), c) // right
}

// drawLine rasterizes a straight segment with the given stroke width.
func drawLine(dst *image.RGBA, a, b geometry.Point, c color.NRGBA, width int) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		steps = 1
	}

	half := width / 2
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := int(math.Round(a.X + dx*t))
		y := int(math.Round(a.Y + dy*t))
		for oy := -half; oy <= half; oy++ {
			for ox := -half; ox <= half; ox++ {
				blendPx(dst, x+ox, y+oy, c)
			}
		}
	}
}

// strokePolygon outlines the closed boundary through pts.
func strokePolygon(dst *image.RGBA, pts []geometry.Point, c color.NRGBA, width int) {
	if len(pts) < 2 {
		return
	}
	for i := range pts {
		drawLine(dst, pts[i], pts[(i+1)%len(pts)], c, width)
	}
}

// fillPolygon fills the closed boundary using even-odd scanline parity,
// matching the ray-casting rule used for hit-testing.
func fillPolygon(dst *image.RGBA, pts []geometry.Point, c color.NRGBA) {
	if len(pts) < 3 || c.A == 0 {
		return
	}

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))
	var xs []float64

	for y := yStart; y <= yEnd; y++ {
		scan := float64(y) + 0.5
		xs = xs[:0]
		j := len(pts) - 1
		for i := 0; i < len(pts); i++ {
			pi, pj := pts[i], pts[j]
			if (pi.Y > scan) != (pj.Y > scan) {
				xs = append(xs, (pj.X-pi.X)*(scan-pi.Y)/(pj.Y-pi.Y)+pi.X)
			}
			j = i
		}
		sort.Float64s(xs)

		for k := 0; k+1 < len(xs); k += 2 {
			for x := int(math.Ceil(xs[k])); x < int(math.Ceil(xs[k+1])); x++ {
				blendPx(dst, x, y, c)
			}
		}
	}
}

const (
	chipPadding = 3
	chipHeight  = 16
)

// drawLabelChip paints a small filled tag with the class and confidence,
// above the box when there is room and just below its top edge otherwise.
func drawLabelChip(dst *image.RGBA, box geometry.Rect, label string, c color.NRGBA) {
	if label == "" {
		return
	}

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, label).Ceil()

	x := int(math.Round(box.X1))
	y := int(math.Round(box.Y1)) - chipHeight
	if y < dst.Bounds().Min.Y {
		y = int(math.Round(box.Y1))
	}

	chip := image.Rect(x, y, x+textWidth+2*chipPadding, y+chipHeight)
	fillRect(dst, chip, c)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelTextColor(c)),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x + chipPadding),
			Y: fixed.I(y + chipHeight - 4),
		},
	}
	d.DrawString(label)
}

// labelTextColor picks black or white for contrast against the chip fill.
func labelTextColor(c color.NRGBA) color.Color {
	// Rec. 601 luma weights.
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luma > 150 {
		return color.Black
	}
	return color.White
}
