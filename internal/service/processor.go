package service

import (
	"bytes"
	"fmt"
	"math"

	"github.com/disintegration/imaging"

	"github.com/pawtrail/rescue/internal/domain"
)

const (
	// DefaultMaxUploadBytes is the upload size ceiling when none is configured.
	DefaultMaxUploadBytes = 10 * 1024 * 1024 // 10MB
	// DefaultMaxEdge is the longest edge of a processed image in pixels.
	DefaultMaxEdge = 1200

	jpegQuality = 85
	// ProcessedContentType is the canonical format of every stored image.
	ProcessedContentType = "image/jpeg"
)

// ImageProcessor validates and resizes uploaded images. It is a pure
// transform over bytes; all I/O belongs to the calling pipeline.
type ImageProcessor struct {
	maxBytes     int64
	maxEdge      int
	allowedTypes map[string]bool
}

// NewImageProcessor creates an ImageProcessor accepting JPEG and PNG uploads
// up to maxBytes, resizing so the longer edge never exceeds maxEdge. Zero
// values select the defaults.
func NewImageProcessor(maxBytes int64, maxEdge int) *ImageProcessor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	return &ImageProcessor{
		maxBytes: maxBytes,
		maxEdge:  maxEdge,
		allowedTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
		},
	}
}

// Process validates raw upload bytes, resizes the image so its longer edge
// is at most the configured maximum (never upscaling), and re-encodes it as
// JPEG. Validation failures return domain.ErrInvalidInput; undecodable
// payloads return domain.ErrProcessing.
func (p *ImageProcessor) Process(raw []byte, declaredContentType string) ([]byte, error) {
	// Cheap checks first: reject before decoding untrusted data.
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}
	if int64(len(raw)) > p.maxBytes {
		return nil, fmt.Errorf("%w: file size exceeds maximum of %dMB",
			domain.ErrInvalidInput, p.maxBytes/1024/1024)
	}
	if !p.allowedTypes[declaredContentType] {
		return nil, fmt.Errorf("%w: content type %s not allowed, only JPEG and PNG are accepted",
			domain.ErrInvalidInput, declaredContentType)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrProcessing, err)
	}

	bounds := img.Bounds()
	width, height := targetSize(bounds.Dx(), bounds.Dy(), p.maxEdge)
	if width != bounds.Dx() || height != bounds.Dy() {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrProcessing, err)
	}
	return buf.Bytes(), nil
}

// targetSize clamps the longer edge to maxEdge, preserving aspect ratio and
// rounding the shorter edge to the nearest pixel. Images already within the
// limit keep their dimensions.
func targetSize(width, height, maxEdge int) (int, int) {
	if width <= maxEdge && height <= maxEdge {
		return width, height
	}

	if width >= height {
		scale := float64(maxEdge) / float64(width)
		return maxEdge, atLeastOne(int(math.Round(float64(height) * scale)))
	}
	scale := float64(maxEdge) / float64(height)
	return atLeastOne(int(math.Round(float64(width) * scale))), maxEdge
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
