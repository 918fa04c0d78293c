// Package imaging loads item screenshots and prepares them for text recognition.
//
// The central operation is binarization: every pixel is reduced to pure black
// or pure white by comparing the unweighted mean of its red, green and blue
// channels against a fixed threshold. Tooltip text is rendered with high,
// consistent contrast, so a hard threshold gives the recognition engine sharp
// glyph edges at the cost of anti-aliasing detail.
//
// # Bitmaps
//
// The preprocessing bitmap type is *image.NRGBA: non-premultiplied 8-bit
// channels, the same layout a browser canvas exposes. Binarizer.Apply mutates
// such a bitmap in place; Binarizer.Binarize accepts any image.Image and
// returns a fresh bitmap with identical dimensions.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. For regions,
// (X1,Y1) is inclusive and (X2,Y2) is exclusive.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Binarizer holds only its threshold and
// can be shared; images passed to Apply must be owned by the caller for the
// duration of the call. Cached images are treated as read-only: Crop, Upscale
// and Binarize always return new bitmaps.
//
// # Supported Formats
//
// PNG, JPEG, GIF, BMP, TIFF and WebP are decoded. Screenshots pasted from the
// clipboard can be passed as base64 through DecodeBase64.
package imaging
