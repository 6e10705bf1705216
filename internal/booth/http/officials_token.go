package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/pkg/boothsdk"
	"github.com/aussiebroadwan/biovote/pkg/httpx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
)

type OfficialTokenHandler struct {
	OfficialService *service.OfficialService
}

// ServeHTTP godoc
//
//	@Summary		Official Token Endpoint
//	@Description	Exchange the current TOTP code from the officials' authenticator for a short-lived access token
//	@Tags			Officials
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			code	formData	string					true	"Six digit TOTP code"
//	@Success		200		{object}	boothsdk.TokenResponse	"access_token, expires_in, scope"
//	@Failure		400		{object}	boothsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	boothsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	boothsdk.ErrorResponse	"rate limited"
//	@Router			/v1/officials/token [post].
func (h *OfficialTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		boothsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	code := r.FormValue("code")
	if code == "" {
		boothsdk.NewAPIError(http.StatusBadRequest, boothsdk.ErrorCodeInvalidRequest, "code is required").WriteError(w)
		return
	}

	tok, err := h.OfficialService.IssueToken(ctx, code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			boothsdk.ErrInvalidCode.WriteError(w)
			return
		}
		log.Error("failed to issue official token", "err", err)
		boothsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, boothsdk.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(tok.ExpiresAt).Seconds()),
		Scope:       strings.Join(tok.Scopes, " "),
	})
}
