package storage

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// ImageProcessor normalizes student photos and receipt scans before they
// reach object storage: jpeg/png only, bounded dimensions, re-encoded as
// JPEG so stored objects are uniform regardless of what the phone sent.
type ImageProcessor struct {
	MaxBytes int64
	MaxEdge  int
	Quality  int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		MaxBytes: 5 * 1024 * 1024,
		MaxEdge:  1200,
		Quality:  85,
	}
}

// Validate checks size and format without decoding the full image.
func (p *ImageProcessor) Validate(data []byte) error {
	if int64(len(data)) > p.MaxBytes {
		return fmt.Errorf("image exceeds %dMB", p.MaxBytes/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// Normalize bounds the longest edge and re-encodes as JPEG. Images already
// smaller than the bound are not upscaled.
func (p *ImageProcessor) Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, p.MaxEdge, p.MaxEdge, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("cannot encode image: %w", err)
	}
	return buf.Bytes(), nil
}
