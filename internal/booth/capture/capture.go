// Package capture defines how the booth obtains fresh biometric samples.
// Device acquisition lives behind Source; the core only sees bytes.
package capture

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/biovote/internal/booth/biometric"
	"github.com/aussiebroadwan/biovote/internal/booth/domain"
)

// ErrNoSampleDetected means the source gave up without producing a sample
// for the requested modality (no face in frame, missing upload, timeout).
var ErrNoSampleDetected = errors.New("capture: no sample detected")

// Source supplies one sample per call. Implementations own their own
// timeouts and must honour ctx.
type Source interface {
	Capture(ctx context.Context, m domain.Modality) (biometric.Sample, error)
}

// Pair captures every modality from src in order.
func Pair(ctx context.Context, src Source) (biometric.Pair, error) {
	face, err := src.Capture(ctx, domain.ModalityFace)
	if err != nil {
		return biometric.Pair{}, err
	}
	eye, err := src.Capture(ctx, domain.ModalityEye)
	if err != nil {
		return biometric.Pair{}, err
	}
	return biometric.Pair{Face: face, Eye: eye}, nil
}

// Static replays fixed samples. Useful for kiosks that capture up front and
// for tests.
type Static map[domain.Modality]biometric.Sample

func (s Static) Capture(ctx context.Context, m domain.Modality) (biometric.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sample, ok := s[m]
	if !ok || len(sample) == 0 {
		return nil, ErrNoSampleDetected
	}
	return sample, nil
}
