package biometric

import (
	"fmt"
	"math"
)

// Oracle scores how alike two normalized images of the same modality are.
// Scores lie in [-1, 1], higher meaning more similar. Implementations must be
// deterministic and free of shared mutable state.
type Oracle interface {
	Score(a, b Image) (float64, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(a, b Image) (float64, error)

func (f OracleFunc) Score(a, b Image) (float64, error) { return f(a, b) }

const histogramBins = 256

// HistogramOracle compares the intensity histograms of two images using the
// Pearson correlation coefficient.
type HistogramOracle struct{}

func (HistogramOracle) Score(a, b Image) (float64, error) {
	if !a.valid() || !b.valid() {
		return 0, fmt.Errorf("%w: image not normalized", ErrInvalidSample)
	}
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("%w: size mismatch %dx%d vs %dx%d",
			ErrInvalidSample, a.Width, a.Height, b.Width, b.Height)
	}

	return correlate(histogram(a), histogram(b)), nil
}

func histogram(im Image) [histogramBins]float64 {
	var h [histogramBins]float64
	for _, p := range im.Pix {
		h[p]++
	}
	return h
}

// correlate returns the correlation of two histograms. A pair where either
// side has zero variance scores 1 when the histograms are identical and 0
// otherwise.
func correlate(h1, h2 [histogramBins]float64) float64 {
	var mean1, mean2 float64
	for i := range histogramBins {
		mean1 += h1[i]
		mean2 += h2[i]
	}
	mean1 /= histogramBins
	mean2 /= histogramBins

	var num, den1, den2 float64
	for i := range histogramBins {
		d1 := h1[i] - mean1
		d2 := h2[i] - mean2
		num += d1 * d2
		den1 += d1 * d1
		den2 += d2 * d2
	}

	if den1 == 0 || den2 == 0 {
		if h1 == h2 {
			return 1
		}
		return 0
	}

	r := num / math.Sqrt(den1*den2)
	return math.Max(-1, math.Min(1, r))
}
