// ABOUTME: Codec compresses raw pixel buffers into transmittable JPEG frames
// ABOUTME: Optionally downscales to a max dimension before encoding to bound payload size

package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// FormatJPEG is the wire format produced by the Codec.
const FormatJPEG = "jpeg"

// Codec encodes captured images. MaxWidth/MaxHeight of zero disable scaling.
type Codec struct {
	MaxWidth  int
	MaxHeight int
}

// ValidQuality reports whether q is an acceptable encoding quality.
func ValidQuality(q int) bool {
	return q >= 1 && q <= 100
}

// Encode compresses img as JPEG at the given quality, downscaling first when
// the image exceeds the configured maximum dimensions.
func (c *Codec) Encode(img image.Image, quality int) ([]byte, error) {
	if !ValidQuality(quality) {
		return nil, fmt.Errorf("quality %d out of range [1,100]", quality)
	}
	img = c.scale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return buf.Bytes(), nil
}

// scale downscales img to fit within MaxWidth x MaxHeight, preserving aspect
// ratio. Images already within bounds are returned unchanged.
func (c *Codec) scale(img image.Image) image.Image {
	if c.MaxWidth <= 0 && c.MaxHeight <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	ratio := 1.0
	if c.MaxWidth > 0 && w > c.MaxWidth {
		ratio = float64(c.MaxWidth) / float64(w)
	}
	if c.MaxHeight > 0 && h > c.MaxHeight {
		if r := float64(c.MaxHeight) / float64(h); r < ratio {
			ratio = r
		}
	}
	if ratio >= 1.0 {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*ratio), int(float64(h)*ratio)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
