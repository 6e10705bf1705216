package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/biometric"
	"github.com/aussiebroadwan/biovote/internal/booth/capture"
	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
)

// EnrollmentService registers voters and their reference templates.
type EnrollmentService struct {
	Store    store.Store
	Verifier *biometric.Verifier
	Now      func() time.Time
}

func (s *EnrollmentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Enroll stores face and eye templates for a new, eligible voter. Both
// templates must normalize, otherwise the voter could never pass
// verification. Re-enrolling an id returns ErrAlreadyEnrolled and keeps the
// original templates.
func (s *EnrollmentService) Enroll(ctx context.Context, voterID string, face, eye biometric.Sample) (domain.Voter, error) {
	log := slogx.FromContext(ctx)

	id, ok := normalizeLabel(voterID)
	if !ok {
		return domain.Voter{}, ErrInvalidVoterID
	}

	if _, err := s.Verifier.Normalize(face); err != nil {
		return domain.Voter{}, fmt.Errorf("face template: %w", err)
	}
	if _, err := s.Verifier.Normalize(eye); err != nil {
		return domain.Voter{}, fmt.Errorf("eye template: %w", err)
	}

	voter := domain.Voter{
		ID: id,
		Templates: map[domain.Modality]domain.Template{
			domain.ModalityFace: domain.Template(face),
			domain.ModalityEye:  domain.Template(eye),
		},
		Status:     domain.StatusEligible,
		EnrolledAt: s.now(),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Voters().CreateVoter(ctx, voter)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("enrollment refused, voter exists", slog.String("voter_id", id))
			return domain.Voter{}, ErrAlreadyEnrolled
		}
		log.Error("failed to enroll voter", slog.String("voter_id", id), slog.Any("error", err))
		return domain.Voter{}, err
	}

	log.Info("voter enrolled", slog.String("voter_id", id))
	return voter, nil
}

// EnrollWithCapture acquires both templates from src, then enrolls.
func (s *EnrollmentService) EnrollWithCapture(ctx context.Context, voterID string, src capture.Source) (domain.Voter, error) {
	pair, err := capture.Pair(ctx, src)
	if err != nil {
		if errors.Is(err, capture.ErrNoSampleDetected) {
			return domain.Voter{}, fmt.Errorf("%w: %w", ErrInvalidSample, err)
		}
		return domain.Voter{}, err
	}
	return s.Enroll(ctx, voterID, pair.Face, pair.Eye)
}

// Lookup returns the voter record for id.
func (s *EnrollmentService) Lookup(ctx context.Context, voterID string) (domain.Voter, error) {
	id, ok := normalizeLabel(voterID)
	if !ok {
		return domain.Voter{}, ErrInvalidVoterID
	}

	v, err := s.Store.Voters().GetVoter(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Voter{}, ErrVoterNotFound
		}
		if errors.Is(err, store.ErrTemplateUnreadable) {
			return domain.Voter{}, fmt.Errorf("%w: %w", ErrTemplateUnavailable, err)
		}
		return domain.Voter{}, err
	}
	return v, nil
}
