package biometric

import (
	"fmt"
	"math"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
)

// DefaultThreshold is the minimum score per modality unless configured.
const DefaultThreshold = 0.8

// Pair holds one sample per modality.
type Pair struct {
	Face Sample
	Eye  Sample
}

// Verifier accepts an attempt only when every modality clears its own
// threshold. Scores are never combined across modalities.
type Verifier struct {
	normalizer    Normalizer
	oracle        Oracle
	faceThreshold float64
	eyeThreshold  float64
}

type VerifierOptions struct {
	Normalizer    Normalizer // default: GrayscaleNormalizer{Size: DefaultSampleSize}
	Oracle        Oracle     // default: HistogramOracle
	FaceThreshold float64
	EyeThreshold  float64
}

// NewVerifier builds a Verifier. Thresholds must lie within the oracle's
// score range.
func NewVerifier(opts VerifierOptions) (*Verifier, error) {
	if opts.Normalizer == nil {
		opts.Normalizer = GrayscaleNormalizer{Size: DefaultSampleSize}
	}
	if opts.Oracle == nil {
		opts.Oracle = HistogramOracle{}
	}
	for name, t := range map[string]float64{"face": opts.FaceThreshold, "eye": opts.EyeThreshold} {
		if math.IsNaN(t) || t < -1 || t > 1 {
			return nil, fmt.Errorf("biometric: %s threshold %.3f outside [-1, 1]", name, t)
		}
	}

	return &Verifier{
		normalizer:    opts.Normalizer,
		oracle:        opts.Oracle,
		faceThreshold: opts.FaceThreshold,
		eyeThreshold:  opts.EyeThreshold,
	}, nil
}

// Normalize exposes the verifier's normalizer so enrollment can reject
// templates that would never be comparable.
func (v *Verifier) Normalize(s Sample) (Image, error) {
	return v.normalizer.Normalize(s)
}

// Verify scores captured against enrolled. A score below threshold yields a
// reject decision with a nil error; only normalization or oracle failures
// return an error (wrapping ErrInvalidSample).
func (v *Verifier) Verify(captured, enrolled Pair) (domain.VerificationAttempt, error) {
	attempt := domain.VerificationAttempt{
		FaceThreshold: v.faceThreshold,
		EyeThreshold:  v.eyeThreshold,
		Decision:      domain.DecisionReject,
	}

	var err error
	if attempt.FaceScore, err = v.score(captured.Face, enrolled.Face); err != nil {
		return attempt, fmt.Errorf("face: %w", err)
	}
	if attempt.EyeScore, err = v.score(captured.Eye, enrolled.Eye); err != nil {
		return attempt, fmt.Errorf("eye: %w", err)
	}

	if attempt.FaceScore >= v.faceThreshold && attempt.EyeScore >= v.eyeThreshold {
		attempt.Decision = domain.DecisionAccept
	}
	return attempt, nil
}

func (v *Verifier) score(captured, enrolled Sample) (float64, error) {
	a, err := v.normalizer.Normalize(captured)
	if err != nil {
		return 0, err
	}
	b, err := v.normalizer.Normalize(enrolled)
	if err != nil {
		return 0, err
	}
	return v.oracle.Score(a, b)
}
