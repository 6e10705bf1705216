package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/aussiebroadwan/biovote/internal/booth/biometric"
	"github.com/aussiebroadwan/biovote/internal/booth/domain"
)

// DefaultMaxSampleBytes bounds a single uploaded sample.
const DefaultMaxSampleBytes = 4 << 20

// ErrSampleTooLarge is returned when an uploaded file exceeds the limit.
var ErrSampleTooLarge = errors.New("capture: sample too large")

// Upload reads samples from multipart form files named after the modality
// ("face", "eye"). The form must already be parsed.
type Upload struct {
	Form     *multipart.Form
	MaxBytes int64
}

// FromRequest parses r as multipart/form-data bounded by maxBytes per
// sample (plus a little room for the text fields).
func FromRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*Upload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSampleBytes
	}
	limit := FormLimit(maxBytes)
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, fmt.Errorf("capture: parse multipart form: %w", err)
	}
	return &Upload{Form: r.MultipartForm, MaxBytes: maxBytes}, nil
}

// FormLimit is the largest request body accepted for samples of maxBytes
// each: one per modality plus room for the text fields.
func FormLimit(maxBytes int64) int64 {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSampleBytes
	}
	return int64(len(domain.Modalities))*maxBytes + 64<<10
}

func (u *Upload) Capture(ctx context.Context, m domain.Modality) (biometric.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u.Form == nil {
		return nil, ErrNoSampleDetected
	}
	files := u.Form.File[string(m)]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, ErrNoSampleDetected
	}

	limit := u.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxSampleBytes
	}
	if files[0].Size > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrSampleTooLarge, m, files[0].Size)
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", m, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("capture: read %s: %w", m, err)
	}
	if len(data) == 0 {
		return nil, ErrNoSampleDetected
	}
	return data, nil
}
