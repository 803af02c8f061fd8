package compress

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Encoder encodes an image at a quality in [0, 1].
// Returning nil data means the encoder produced nothing for that quality.
type Encoder interface {
	Encode(img image.Image, quality float64) ([]byte, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(img image.Image, quality float64) ([]byte, error)

// Encode implements Encoder.
func (f EncoderFunc) Encode(img image.Image, quality float64) ([]byte, error) {
	return f(img, quality)
}

// JPEGEncoder encodes baseline JPEG.
type JPEGEncoder struct{}

// JPEGQuality maps q in [0, 1] to a JPEG quality in [1, 100].
func JPEGQuality(q float64) int {
	v := int(math.Round(q * 100))
	return min(max(v, 1), 100)
}

// Encode implements Encoder.
func (JPEGEncoder) Encode(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality(quality))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
