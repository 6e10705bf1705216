package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/biovote/internal/booth/capture"
	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/pkg/boothsdk"
	"github.com/aussiebroadwan/biovote/pkg/httpx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
)

type VotersHandler struct {
	EnrollmentService *service.EnrollmentService
	MaxSampleBytes    int64
}

// HandleEnroll godoc
//
//	@Summary		Enroll Voter
//	@Description	Register a voter with reference face and eye samples. Create-only: an existing voter id is refused
//	@Description	and the original templates are kept.
//	@Tags			Voters
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			voter_id	formData	string					true	"Voter identifier"
//	@Param			face		formData	file					true	"Face image (JPEG, PNG or GIF)"
//	@Param			eye			formData	file					true	"Eye image (JPEG, PNG or GIF)"
//	@Success		201			{object}	boothsdk.VoterResponse	"enrolled voter"
//	@Failure		400			{object}	boothsdk.ErrorResponse	"invalid_request or invalid_sample"
//	@Failure		401			{string}	string					"invalid token"
//	@Failure		403			{string}	string					"insufficient_scope"
//	@Failure		409			{object}	boothsdk.ErrorResponse	"already_enrolled"
//	@Failure		413			{object}	boothsdk.ErrorResponse	"sample too large"
//	@Router			/v1/voters [post].
func (h *VotersHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	upload, err := capture.FromRequest(w, r, h.MaxSampleBytes)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	voterID := r.FormValue("voter_id")
	ctx = slogx.With(ctx, "voter_id", voterID)
	log := slogx.FromContext(ctx)

	voter, err := h.EnrollmentService.EnrollWithCapture(ctx, voterID, upload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVoterID):
			boothsdk.NewAPIError(http.StatusBadRequest, boothsdk.ErrorCodeInvalidRequest, "voter_id is required").WriteError(w)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			boothsdk.ErrAlreadyEnrolled.WriteError(w)
		case errors.Is(err, capture.ErrSampleTooLarge):
			writeUploadError(w, err)
		case errors.Is(err, service.ErrInvalidSample):
			log.Warn("enrollment sample rejected", "err", err)
			boothsdk.ErrInvalidSample.WriteError(w)
		default:
			log.Error("failed to enroll voter", "err", err)
			boothsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, voterResponse(voter))
}

// HandleGet godoc
//
//	@Summary		Get Voter
//	@Description	Voting status of an enrolled voter. Templates are never returned.
//	@Tags			Voters
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Voter identifier"
//	@Success		200	{object}	boothsdk.VoterResponse	"voter status"
//	@Failure		404	{object}	boothsdk.ErrorResponse	"not_found"
//	@Router			/v1/voters/{id} [get].
func (h *VotersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	voter, err := h.EnrollmentService.Lookup(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVoterNotFound), errors.Is(err, service.ErrInvalidVoterID):
			boothsdk.ErrNotFound.WriteError(w)
		case errors.Is(err, service.ErrTemplateUnavailable):
			log.Error("voter templates unreadable", "err", err)
			boothsdk.ErrUnavailable.WriteError(w)
		default:
			log.Error("failed to look up voter", "err", err)
			boothsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, voterResponse(voter))
}

func voterResponse(v domain.Voter) boothsdk.VoterResponse {
	return boothsdk.VoterResponse{
		VoterID:    v.ID,
		Status:     string(v.Status),
		EnrolledAt: v.EnrolledAt,
		VotedAt:    v.VotedAt,
	}
}

// writeUploadError maps multipart parsing and size failures.
func writeUploadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, capture.ErrSampleTooLarge) {
		boothsdk.NewAPIError(http.StatusRequestEntityTooLarge, boothsdk.ErrorCodeInvalidRequest, "sample too large").WriteError(w)
		return
	}
	boothsdk.NewAPIError(http.StatusBadRequest, boothsdk.ErrorCodeInvalidRequest, "expected multipart/form-data").WriteError(w)
}
