package extractor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Downscale resizes a camera capture to fit within maxPx (width or height)
// while keeping aspect ratio, re-encoding as JPEG. Phone captures routinely
// exceed 4000px and the detector gains nothing from them.
func Downscale(data []byte, maxPx int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Small enough already; pass the original bytes through untouched so
	// JPEG quality is not degraded by a pointless re-encode.
	if width <= maxPx && height <= maxPx {
		return data, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxPx
		newHeight = int(float64(height) * float64(maxPx) / float64(width))
	} else {
		newHeight = maxPx
		newWidth = int(float64(width) * float64(maxPx) / float64(height))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}
