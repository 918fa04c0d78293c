package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// MaxUpscale bounds the resize factor accepted by Upscale.
const MaxUpscale = 4.0

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Crop extracts the tooltip region from a screenshot.
//
// The region must lie inside the image bounds and be non-empty. The returned
// bitmap is a copy with its origin at (0,0).
func Crop(img image.Image, r Region) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, r.Rect()), nil
}

// Upscale enlarges img by factor using Lanczos resampling.
//
// Small tooltip fonts are recognised more reliably at 2x. A factor of 1 or
// less returns an unscaled copy; factors above MaxUpscale are clamped.
func Upscale(img image.Image, factor float64) *image.NRGBA {
	if factor <= 1 {
		return imaging.Clone(img)
	}
	if factor > MaxUpscale {
		factor = MaxUpscale
	}
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * factor)
	height := int(float64(bounds.Dy()) * factor)
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// EncodedImage is a bitmap serialized for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG serializes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64PNG serializes img as a base64 PNG.
func EncodeBase64PNG(img image.Image) (*EncodedImage, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return &EncodedImage{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes img to path as a PNG file regardless of the path's extension.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}
