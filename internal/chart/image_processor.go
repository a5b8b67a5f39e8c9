package chart

import (
	"fmt"

	"github.com/h2non/bimg"
)

// ImageProcessor normalises rendered charts before they are stored.
// It uses bimg (Go bindings for libvips), which requires libvips as a
// system dependency.
type ImageProcessor struct {
	width int
}

// NewImageProcessor creates a processor that scales charts to width pixels.
func NewImageProcessor(width int) *ImageProcessor {
	return &ImageProcessor{width: width}
}

// Normalize re-encodes a chart as an sRGB PNG of the configured width,
// flattened onto white with metadata stripped. Height follows the aspect ratio.
func (p *ImageProcessor) Normalize(imageData []byte) ([]byte, error) {
	img := bimg.NewImage(imageData)

	out, err := img.Process(bimg.Options{
		Width:          p.width,
		Type:           bimg.PNG,
		Enlarge:        true,
		Flatten:        true,
		Background:     bimg.Color{R: 255, G: 255, B: 255},
		StripMetadata:  true,
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, fmt.Errorf("normalizing chart to %dpx: %w", p.width, err)
	}

	return out, nil
}
