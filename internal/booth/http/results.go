package http

import (
	"net/http"

	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/pkg/boothsdk"
	"github.com/aussiebroadwan/biovote/pkg/httpx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
)

type ResultsHandler struct {
	BallotService *service.BallotService
}

// ServeHTTP godoc
//
//	@Summary		Results
//	@Description	Current tally, ordered by votes descending then candidate name
//	@Tags			Ballots
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	boothsdk.ResultsResponse	"results"
//	@Failure		401	{string}	string						"invalid token"
//	@Failure		403	{string}	string						"insufficient_scope"
//	@Router			/v1/results [get].
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tally, err := h.BallotService.Tally(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to tally ballots", "err", err)
		boothsdk.ErrServerError.WriteError(w)
		return
	}

	resp := boothsdk.ResultsResponse{
		Results: make([]boothsdk.CandidateResult, 0, len(tally)),
		Total:   tally.Total(),
	}
	for _, e := range tally.Ranked() {
		resp.Results = append(resp.Results, boothsdk.CandidateResult{Candidate: e.Candidate, Votes: e.Count})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
