package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/biovote/internal/booth/capture"
	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/pkg/boothsdk"
	"github.com/aussiebroadwan/biovote/pkg/httpx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
)

type BallotsHandler struct {
	BallotService  *service.BallotService
	MaxSampleBytes int64
}

// ServeHTTP godoc
//
//	@Summary		Cast Ballot
//	@Description	Verify fresh face and eye samples against the voter's enrolled templates and, if both clear their
//	@Description	thresholds, record exactly one ballot for the voter.
//	@Tags			Ballots
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			voter_id	formData	string						true	"Voter identifier"
//	@Param			candidate	formData	string						true	"Candidate label"
//	@Param			face		formData	file						true	"Face image (JPEG, PNG or GIF)"
//	@Param			eye			formData	file						true	"Eye image (JPEG, PNG or GIF)"
//	@Success		201			{object}	boothsdk.ReceiptResponse	"committed"
//	@Failure		400			{object}	boothsdk.ErrorResponse		"invalid_request or invalid_sample"
//	@Failure		403			{object}	boothsdk.ErrorResponse		"rejected"
//	@Failure		404			{object}	boothsdk.ErrorResponse		"not_found"
//	@Failure		409			{object}	boothsdk.ErrorResponse		"conflict"
//	@Failure		413			{object}	boothsdk.ErrorResponse		"sample too large"
//	@Failure		429			{object}	boothsdk.ErrorResponse		"rate limited"
//	@Failure		503			{object}	boothsdk.ErrorResponse		"template_unavailable"
//	@Router			/v1/ballots [post].
func (h *BallotsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	upload, err := capture.FromRequest(w, r, h.MaxSampleBytes)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	voterID := r.FormValue("voter_id")
	ctx = slogx.With(ctx, "voter_id", voterID)
	log := slogx.FromContext(ctx)

	receipt, err := h.BallotService.CastWithCapture(ctx, voterID, r.FormValue("candidate"), upload)
	logReceipt(log, receipt, err)

	if err == nil {
		httpx.WriteJSON(w, http.StatusCreated, receiptResponse(receipt))
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidVoterID):
		boothsdk.NewAPIError(http.StatusBadRequest, boothsdk.ErrorCodeInvalidRequest, "voter_id is required").WriteError(w)
	case errors.Is(err, service.ErrInvalidCandidate):
		boothsdk.NewAPIError(http.StatusBadRequest, boothsdk.ErrorCodeInvalidRequest, "candidate is required").WriteError(w)
	case errors.Is(err, capture.ErrSampleTooLarge):
		writeUploadError(w, err)
	case errors.Is(err, service.ErrTemplateUnavailable):
		boothsdk.ErrUnavailable.WriteError(w)
	case receipt.Outcome == domain.OutcomeNotFound:
		boothsdk.ErrNotFound.WithOutcome(boothsdk.OutcomeNotFound).WriteError(w)
	case receipt.Outcome == domain.OutcomeConflict:
		boothsdk.ErrConflict.WithOutcome(boothsdk.OutcomeConflict).WriteError(w)
	case receipt.Outcome == domain.OutcomeRejected:
		boothsdk.ErrRejected.WithOutcome(boothsdk.OutcomeRejected).WriteError(w)
	case receipt.Outcome == domain.OutcomeInvalidSample:
		boothsdk.ErrInvalidSample.WithOutcome(boothsdk.OutcomeInvalidSample).WriteError(w)
	default:
		boothsdk.ErrServerError.WriteError(w)
	}
}

// logReceipt records every attempt with its scores. Rejections are the
// audit trail for failed identity checks.
func logReceipt(log *slog.Logger, receipt domain.Receipt, err error) {
	attrs := []any{slog.String("outcome", string(receipt.Outcome))}
	if a := receipt.Attempt; a != nil {
		attrs = append(attrs,
			slog.Float64("face_score", a.FaceScore),
			slog.Float64("eye_score", a.EyeScore),
			slog.Float64("face_threshold", a.FaceThreshold),
			slog.Float64("eye_threshold", a.EyeThreshold),
		)
	}
	if b := receipt.Ballot; b != nil {
		attrs = append(attrs, slog.String("ballot_id", b.ID))
	}

	switch receipt.Outcome {
	case domain.OutcomeCommitted:
		log.Info("ballot committed", attrs...)
	case domain.OutcomeRejected, domain.OutcomeConflict, domain.OutcomeNotFound, domain.OutcomeInvalidSample:
		log.Warn("ballot refused", append(attrs, slog.Any("err", err))...)
	default:
		if err != nil && !errors.Is(err, service.ErrInvalidVoterID) && !errors.Is(err, service.ErrInvalidCandidate) {
			log.Error("ballot attempt failed", append(attrs, slog.Any("err", err))...)
		}
	}
}

func receiptResponse(r domain.Receipt) boothsdk.ReceiptResponse {
	resp := boothsdk.ReceiptResponse{
		VoterID: r.VoterID,
		Outcome: string(r.Outcome),
	}
	if r.Ballot != nil {
		resp.BallotID = r.Ballot.ID
		resp.Candidate = r.Ballot.Candidate
		resp.CastAt = r.Ballot.CastAt
	}
	if r.Attempt != nil {
		resp.FaceScore = r.Attempt.FaceScore
		resp.EyeScore = r.Attempt.EyeScore
	}
	return resp
}
