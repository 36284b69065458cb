package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

const jpegDataURIPrefix = "data:image/jpeg;base64,"

// DefaultQuality is the JPEG quality used for enrollment portraits.
const DefaultQuality = 90

// Snapshot centre-crops frame to a square, scales it to size×size and
// returns it as a JPEG data URI. A nil frame yields an empty string.
func Snapshot(frame image.Image, size, quality int) (string, error) {
	if frame == nil {
		return "", nil
	}
	if size <= 0 {
		return "", fmt.Errorf("snapshot: invalid size %d", size)
	}

	src := squareCrop(frame.Bounds())
	if src.Empty() {
		return "", fmt.Errorf("snapshot: empty frame")
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), frame, src, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("snapshot: encode: %w", err)
	}
	return jpegDataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURI reverses Snapshot. It is used to inspect stored portraits.
func DecodeDataURI(uri string) (image.Image, error) {
	if len(uri) < len(jpegDataURIPrefix) || uri[:len(jpegDataURIPrefix)] != jpegDataURIPrefix {
		return nil, fmt.Errorf("decode data uri: not a jpeg data uri")
	}
	raw, err := base64.StdEncoding.DecodeString(uri[len(jpegDataURIPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	return img, nil
}

func squareCrop(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	side := min(w, h)
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
