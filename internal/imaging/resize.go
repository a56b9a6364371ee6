// Package imaging converts user-selected image files into bounded,
// base64-encoded data URIs suitable for embedding in a message payload.
//
// Decoding supports JPEG, PNG, GIF and WebP. Images larger than the
// configured bounding box are scaled down preserving aspect ratio;
// smaller images pass through unmodified. Scaling uses
// golang.org/x/image/draw with Catmull-Rom interpolation.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// DefaultMaxDimension bounds attached images to 800 logical units per axis.
const DefaultMaxDimension = 800

// jpegQuality balances size against visible artifacts for chat attachments.
const jpegQuality = 85

// ErrInvalidBounds indicates a non-positive bounding box dimension.
var ErrInvalidBounds = errors.New("invalid resize bounds")

// mimeTypes maps image.Decode format names to MIME types.
var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Resizer scales raw image bytes to fit a maximum bounding box and
// encodes the result as a base64 data URI.
type Resizer struct {
	maxWidth  int
	maxHeight int
}

// NewResizer creates a Resizer with the given bounding box.
// Both dimensions must be positive.
func NewResizer(maxWidth, maxHeight int) (*Resizer, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBounds, maxWidth, maxHeight)
	}
	return &Resizer{maxWidth: maxWidth, maxHeight: maxHeight}, nil
}

// Resize decodes raw image bytes, scales them down to fit the bounding box
// if needed, and returns the encoded image as a data URI.
//
// Images already within bounds are returned as-is (original bytes, original
// format) to avoid a lossy re-encode. Scaled images are re-encoded as PNG
// when the source was PNG (preserving transparency), JPEG otherwise.
func (r *Resizer) Resize(data []byte) (string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Within bounds: no scaling, keep the original encoding.
	if width <= r.maxWidth && height <= r.maxHeight {
		return dataURI(mimeTypes[format], data), nil
	}

	dstW, dstH := fit(width, height, r.maxWidth, r.maxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	mime := "image/jpeg"
	switch format {
	case "png":
		mime = "image/png"
		err = png.Encode(&buf, dst)
	case "gif":
		mime = "image/gif"
		err = gif.Encode(&buf, dst, nil)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return "", fmt.Errorf("encoding resized image: %w", err)
	}

	return dataURI(mime, buf.Bytes()), nil
}

// fit computes the largest dimensions within (maxW, maxH) that preserve
// the source aspect ratio. Dimensions never drop below 1.
func fit(w, h, maxW, maxH int) (int, int) {
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := min(scaleW, scaleH)

	dstW := max(int(float64(w)*scale), 1)
	dstH := max(int(float64(h)*scale), 1)
	return dstW, dstH
}

// dataURI renders encoded image bytes as a base64 data URI.
func dataURI(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
