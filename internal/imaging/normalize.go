// Package imaging normalizes product images onto a fixed-size canvas and
// manages their on-disk storage.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	gwebp "github.com/gen2brain/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Defaults for Normalizer.
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 800
	DefaultQuality      = 85
)

// Normalizer composites source images onto a fixed-size white canvas and
// encodes the result as lossy WebP. Output dimensions are always exactly
// width x height regardless of the source aspect ratio; consumers rely on
// this for uniform product-image grids.
type Normalizer struct {
	width   int
	height  int
	quality int
}

// Normalized is the result of normalizing one source image.
type Normalized struct {
	// WebP is the encoded canvas.
	WebP []byte
	// Canvas is the composited image, kept for downstream analysis
	// such as BlurHash computation.
	Canvas image.Image
}

// NewNormalizer creates a Normalizer for the given canvas size and WebP
// quality. Non-positive values fall back to the defaults.
func NewNormalizer(width, height, quality int) *Normalizer {
	if width <= 0 {
		width = DefaultCanvasWidth
	}
	if height <= 0 {
		height = DefaultCanvasHeight
	}
	if quality <= 0 {
		quality = DefaultQuality
	}
	return &Normalizer{width: width, height: height, quality: quality}
}

// Normalize decodes src, scales it proportionally to fit the canvas without
// upscaling, centers it on a white background, and encodes the canvas as WebP.
func (n *Normalizer) Normalize(src []byte) (*Normalized, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Flatten to opaque RGB before compositing. Transparency is flattened
	// onto black here, not onto the white canvas, so alpha-carrying sources
	// keep the same appearance as previous exports.
	flat := flattenRGB(img)

	scaled := scaleToFit(flat, n.width, n.height)

	canvas := image.NewRGBA(image.Rect(0, 0, n.width, n.height))
	stddraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, stddraw.Src)

	// Integer-divided offsets; off-by-one centering for odd remainders is
	// deterministic and acceptable.
	x := (n.width - scaled.Bounds().Dx()) / 2
	y := (n.height - scaled.Bounds().Dy()) / 2
	stddraw.Draw(canvas, scaled.Bounds().Add(image.Pt(x, y)), scaled, scaled.Bounds().Min, stddraw.Src)

	var buf bytes.Buffer
	if err := gwebp.Encode(&buf, canvas, gwebp.Options{Quality: n.quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return &Normalized{WebP: buf.Bytes(), Canvas: canvas}, nil
}

// flattenRGB draws img over an opaque black background, dropping any alpha.
func flattenRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(flat, flat.Bounds(), image.NewUniform(color.Black), image.Point{}, stddraw.Src)
	stddraw.Draw(flat, flat.Bounds(), img, b.Min, stddraw.Over)
	return flat
}

// scaleToFit scales img proportionally so it fits within maxW x maxH,
// never upscaling beyond the original resolution. Uses Catmull-Rom
// resampling for quality.
func scaleToFit(img *image.RGBA, maxW, maxH int) *image.RGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxW && h <= maxH {
		return img
	}

	ratio := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	dw := int(float64(w)*ratio + 0.5)
	dh := int(float64(h)*ratio + 0.5)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	if dw > maxW {
		dw = maxW
	}
	if dh > maxH {
		dh = maxH
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
