package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// DefaultThreshold is the luminance cut-off used for tooltip screenshots.
// Pixels whose channel mean is strictly greater become white.
const DefaultThreshold uint8 = 160

// Binarizer reduces bitmaps to pure black and white for text recognition.
//
// Each pixel is handled independently of its neighbours:
//
//	avg = (r + g + b) / 3
//	out = 255 if avg > Threshold, else 0
//
// The result is written to all three color channels. Alpha is left untouched.
// The comparison is done on the integer sum (r+g+b > 3*Threshold), which is
// exactly the same test without any rounding of the mean.
type Binarizer struct {
	// Threshold is the cut-off on the 0-255 channel scale.
	Threshold uint8
}

// NewBinarizer creates a Binarizer with the given threshold.
func NewBinarizer(threshold uint8) *Binarizer {
	return &Binarizer{Threshold: threshold}
}

// Apply binarizes img in place.
//
// Every pixel whose red, green and blue channels sum to more than three times
// the threshold becomes white (255,255,255); every other pixel becomes black.
//
// Parameters:
//   - img: The bitmap to rewrite. Only the pixels inside img.Rect are touched,
//     so sub-images produced by SubImage work as expected.
//
// A nil or zero-area bitmap is left as is and Apply never panics on it.
//
// # Alpha
//
// The alpha channel is left untouched. Transparent regions keep their
// transparency and only their colour channels are rewritten.
//
// # Idempotence
//
// Applying the transform twice yields the same bitmap as applying it once:
// 0 and 255 are fixed points for any threshold below 255, and a threshold of
// 255 maps every pixel to black on the first pass.
//
// # Concurrency
//
// Rows are processed in parallel with bild's parallel.Line; there is no
// ordering dependency between pixels. The caller must not read or write img
// until Apply returns.
func (b *Binarizer) Apply(img *image.NRGBA) {
	if img == nil || img.Rect.Empty() {
		return
	}

	width := img.Rect.Dx()
	parallel.Line(img.Rect.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+width*4]
			for i := 0; i < len(row); i += 4 {
				v := b.level(row[i], row[i+1], row[i+2])
				row[i], row[i+1], row[i+2] = v, v, v
			}
		}
	})
}

// Binarize returns a binarized copy of img. The source is not modified.
//
// The copy has identical dimensions with its origin moved to (0,0).
func (b *Binarizer) Binarize(img image.Image) *image.NRGBA {
	if img == nil || img.Bounds().Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	out := imaging.Clone(img)
	b.Apply(out)
	return out
}

func (b *Binarizer) level(r, g, bl uint8) uint8 {
	if int(r)+int(g)+int(bl) > 3*int(b.Threshold) {
		return 255
	}
	return 0
}
