package insight

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	maxUploadEdge   = 1600
	minOCRHeight    = 1200
	uploadJPEGLevel = 85
)

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// PrepareImage re-encodes a capture as JPEG, honoring EXIF orientation and
// shrinking it to fit within maxUploadEdge on each side.
func PrepareImage(data []byte) ([]byte, string, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, "", err
	}

	b := img.Bounds()
	if b.Dx() > maxUploadEdge || b.Dy() > maxUploadEdge {
		img = imaging.Fit(img, maxUploadEdge, maxUploadEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(uploadJPEGLevel)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// PrepareForOCR converts a capture to an upscaled, sharpened grayscale PNG,
// which tesseract reads more reliably than a raw photo.
func PrepareForOCR(data []byte) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, err
	}

	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < minOCRHeight {
		gray = imaging.Resize(gray, 0, minOCRHeight, imaging.Lanczos)
	}
	gray = imaging.Sharpen(imaging.AdjustContrast(gray, 20), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
