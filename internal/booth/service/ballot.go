package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/biometric"
	"github.com/aussiebroadwan/biovote/internal/booth/capture"
	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/idx"
	"github.com/aussiebroadwan/biovote/pkg/keylock"
)

// BallotService casts ballots for verified voters. It does not log; callers
// decide what to record from the returned Receipt.
type BallotService struct {
	Store    store.Store
	Verifier *biometric.Verifier
	Locks    *keylock.Locker
	Now      func() time.Time
}

func NewBallotService(st store.Store, verifier *biometric.Verifier) *BallotService {
	return &BallotService{
		Store:    st,
		Verifier: verifier,
		Locks:    keylock.New(),
	}
}

type CastRequest struct {
	VoterID   string
	Candidate string
	Face      biometric.Sample
	Eye       biometric.Sample
}

// sampler yields the captured pair once the voter is known to be eligible.
type sampler func(ctx context.Context) (biometric.Pair, error)

// CastBallot verifies the presented samples against the voter's templates
// and, only on accept, settles the voter and records the ballot in one
// transaction.
//
// The returned error is nil only for OutcomeCommitted. Otherwise it matches
// (errors.Is) one of ErrVoterNotFound, ErrConflict, ErrRejected,
// ErrInvalidSample, ErrInvalidVoterID, ErrInvalidCandidate,
// ErrTemplateUnavailable or a context error.
func (s *BallotService) CastBallot(ctx context.Context, req CastRequest) (domain.Receipt, error) {
	return s.cast(ctx, req.VoterID, req.Candidate, func(context.Context) (biometric.Pair, error) {
		return biometric.Pair{Face: req.Face, Eye: req.Eye}, nil
	})
}

// CastWithCapture is CastBallot with samples taken from src. Capture happens
// before any lock is held. A source that detects nothing yields
// OutcomeRejected.
func (s *BallotService) CastWithCapture(ctx context.Context, voterID, candidate string, src capture.Source) (domain.Receipt, error) {
	return s.cast(ctx, voterID, candidate, func(ctx context.Context) (biometric.Pair, error) {
		return capture.Pair(ctx, src)
	})
}

func (s *BallotService) cast(ctx context.Context, voterID, candidate string, sample sampler) (domain.Receipt, error) {
	id, ok := normalizeLabel(voterID)
	if !ok {
		return domain.Receipt{VoterID: voterID}, ErrInvalidVoterID
	}
	receipt := domain.Receipt{VoterID: id}

	candidate, ok = normalizeLabel(candidate)
	if !ok {
		return receipt, ErrInvalidCandidate
	}

	voter, err := s.Store.Voters().GetVoter(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			receipt.Outcome = domain.OutcomeNotFound
			return receipt, ErrVoterNotFound
		}
		if errors.Is(err, store.ErrTemplateUnreadable) {
			return receipt, fmt.Errorf("%w: %w", ErrTemplateUnavailable, err)
		}
		return receipt, err
	}
	if voter.HasVoted() {
		receipt.Outcome = domain.OutcomeConflict
		return receipt, ErrConflict
	}

	captured, err := sample(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrNoSampleDetected) {
			receipt.Outcome = domain.OutcomeRejected
			return receipt, fmt.Errorf("%w: %w", ErrRejected, err)
		}
		return receipt, err
	}

	enrolled := biometric.Pair{
		Face: biometric.Sample(voter.Template(domain.ModalityFace)),
		Eye:  biometric.Sample(voter.Template(domain.ModalityEye)),
	}
	attempt, err := s.Verifier.Verify(captured, enrolled)
	if err != nil {
		if errors.Is(err, biometric.ErrInvalidSample) {
			receipt.Outcome = domain.OutcomeInvalidSample
		}
		return receipt, err
	}
	receipt.Attempt = &attempt
	if !attempt.Accepted() {
		receipt.Outcome = domain.OutcomeRejected
		return receipt, ErrRejected
	}

	return s.commit(ctx, receipt, candidate)
}

// commit settles an accepted attempt. The per-voter lock keeps concurrent
// commits for one voter from reaching storage together; the status
// compare-and-set and the unique ballot constraint decide the winner if they
// do.
func (s *BallotService) commit(ctx context.Context, receipt domain.Receipt, candidate string) (domain.Receipt, error) {
	unlock := s.Locks.Lock(receipt.VoterID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return receipt, err
	}

	at := s.now()
	ballot := domain.Ballot{
		ID:        idx.NewAt(at).String(),
		VoterID:   receipt.VoterID,
		Candidate: candidate,
		CastAt:    at,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Voters().MarkVoted(ctx, receipt.VoterID, at); err != nil {
			return err
		}
		return tx.Ballots().CastBallot(ctx, ballot)
	})
	switch {
	case err == nil:
		receipt.Outcome = domain.OutcomeCommitted
		receipt.Ballot = &ballot
		return receipt, nil
	case errors.Is(err, store.ErrAlreadyVoted), errors.Is(err, store.ErrDuplicateVote):
		receipt.Outcome = domain.OutcomeConflict
		return receipt, fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, store.ErrNotFound):
		receipt.Outcome = domain.OutcomeNotFound
		return receipt, ErrVoterNotFound
	default:
		return receipt, fmt.Errorf("commit ballot: %w", err)
	}
}

// Tally returns exact counts per candidate.
func (s *BallotService) Tally(ctx context.Context) (domain.Tally, error) {
	return s.Store.Ballots().Tally(ctx)
}

func (s *BallotService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
