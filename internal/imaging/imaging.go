// Package imaging validates uploaded photos and bounds their dimensions.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxDimension is the maximum width or height for stored JPEG and PNG images.
const MaxDimension = 1600

// Limits on declared dimensions, checked before any pixel data is decoded.
const (
	MaxSide   = 20000
	MaxPixels = 50_000_000
)

// JPEGQuality is the compression quality for re-encoded JPEGs.
const JPEGQuality = 85

// ErrUnsupported is returned for content that is not an accepted image.
var ErrUnsupported = errors.New("unsupported image format")

// Extensions maps accepted MIME types to their canonical file extension.
var Extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Result contains the processed image data.
type Result struct {
	Data []byte
	MIME string
}

// Ext returns the canonical extension for the result's MIME type.
func (r *Result) Ext() string {
	return Extensions[r.MIME]
}

// Process reads image data, validates the format by sniffing bytes, and
// downscales JPEG and PNG images larger than MaxDimension, re-encoding them
// in their original format. GIF and WebP are checked and kept as uploaded.
func Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	if _, ok := Extensions[detected]; !ok {
		return nil, fmt.Errorf("%w: %s (JPEG, PNG, GIF and WebP accepted)", ErrUnsupported, detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnsupported, detected, err)
	}
	if cfg.Width > MaxSide || cfg.Height > MaxSide || cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds the size limit", ErrUnsupported, cfg.Width, cfg.Height)
	}

	switch detected {
	case "image/gif", "image/webp":
		return &Result{Data: data, MIME: detected}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", ErrUnsupported, err)
	}

	b := img.Bounds()
	if b.Dx() <= MaxDimension && b.Dy() <= MaxDimension {
		return &Result{Data: data, MIME: detected}, nil
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if detected == "image/png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", detected, err)
	}

	return &Result{Data: buf.Bytes(), MIME: detected}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim.
// Uses high-quality Catmull-Rom interpolation.
// Returns the original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	// Calculate new dimensions preserving aspect ratio.
	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
