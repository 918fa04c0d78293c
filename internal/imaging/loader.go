package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultCacheSize is the number of decoded images kept by NewImageCache when
// a non-positive size is requested.
const DefaultCacheSize = 16

type cachedImage struct {
	img    image.Image
	format string
}

// ImageCache keeps recently decoded screenshots keyed by file path.
//
// The cache is bounded: once it holds its configured number of images the least
// recently used one is dropped. Cached images must not be mutated; callers that
// need a writable bitmap should go through Binarizer.Binarize or Crop, which
// copy.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	images *lru.Cache[string, cachedImage]
}

// NewImageCache creates a cache holding at most size decoded images.
func NewImageCache(size int) *ImageCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	images, _ := lru.New[string, cachedImage](size)
	return &ImageCache{images: images}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// The image is cached under the exact path string given. Returns an error if
// the file cannot be opened or is not in a registered image format.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	if entry, ok := c.images.Get(path); ok {
		return entry, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		return cachedImage{}, err
	}

	entry := cachedImage{img: img, format: format}
	c.images.Add(path, entry)
	return entry, nil
}

// Len reports how many images are currently cached.
func (c *ImageCache) Len() int {
	return c.images.Len()
}

// Decode reads an image in any registered format and returns it together with
// the format name reported by the decoder ("png", "jpeg", "bmp", ...).
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeBase64 decodes a base64 encoded image. A data URL prefix such as
// "data:image/png;base64," is accepted and stripped.
func DecodeBase64(s string) (image.Image, string, error) {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64 image: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// ImageInfo contains metadata about a loaded screenshot.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder's format name, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded color model carries alpha.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and reports its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := entry.img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format,
		HasAlpha:      hasAlpha(entry.img),
		FileSizeBytes: stat.Size(),
	}, nil
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Alpha, *image.Alpha16:
		return true
	}
	return false
}
