package biometric

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders for image.Decode
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// DefaultSampleSize is the square edge every sample is rescaled to before
// comparison.
const DefaultSampleSize = 200

// DefaultMaxSamplePixels bounds the declared dimensions of a capture before
// it is decoded. A few bytes of header can otherwise claim a raster of
// gigabytes.
const DefaultMaxSamplePixels = 4096 * 4096

// ErrInvalidSample reports a capture that could not be decoded or brought
// into the common comparable representation. Callers usually ask for a
// recapture.
var ErrInvalidSample = errors.New("biometric: invalid sample")

// Sample is a raw capture as produced by a capture device (encoded image).
type Sample []byte

// Image is a normalized 8-bit grayscale raster.
type Image struct {
	Width  int
	Height int
	Pix    []uint8 // row-major, len == Width*Height
}

func (im Image) valid() bool {
	return im.Width > 0 && im.Height > 0 && len(im.Pix) == im.Width*im.Height
}

// Normalizer turns a raw sample into an Image.
type Normalizer interface {
	Normalize(Sample) (Image, error)
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(Sample) (Image, error)

func (f NormalizerFunc) Normalize(s Sample) (Image, error) { return f(s) }

// GrayscaleNormalizer decodes JPEG, PNG or GIF samples and rescales them to a
// Size x Size grayscale image. Samples declaring more than MaxPixels pixels
// (DefaultMaxSamplePixels when zero) are refused without being decoded.
type GrayscaleNormalizer struct {
	Size      int
	MaxPixels int
}

func (n GrayscaleNormalizer) Normalize(s Sample) (Image, error) {
	if len(s) == 0 {
		return Image{}, fmt.Errorf("%w: empty sample", ErrInvalidSample)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(s))
	if err != nil {
		return Image{}, fmt.Errorf("%w: decode header: %v", ErrInvalidSample, err)
	}
	limit := n.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxSamplePixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, fmt.Errorf("%w: zero sized image", ErrInvalidSample)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return Image{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidSample, cfg.Width, cfg.Height, limit)
	}

	src, _, err := image.Decode(bytes.NewReader(s))
	if err != nil {
		return Image{}, fmt.Errorf("%w: decode: %v", ErrInvalidSample, err)
	}
	if src.Bounds().Empty() {
		return Image{}, fmt.Errorf("%w: zero sized image", ErrInvalidSample)
	}

	size := n.Size
	if size <= 0 {
		size = DefaultSampleSize
	}

	dst := image.NewGray(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return Image{Width: size, Height: size, Pix: dst.Pix}, nil
}
