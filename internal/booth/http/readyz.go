package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/boothsdk"
	"github.com/aussiebroadwan/biovote/pkg/httpx"
	"github.com/aussiebroadwan/biovote/pkg/jwtx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe covering the database, the token signer and the last integrity audit
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	boothsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	boothsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	integrity *service.IntegrityService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &boothsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// A mismatch is reported but does not take the booth out of rotation;
		// officials need the service up to investigate.
		if integrity != nil {
			if last := integrity.Last(); last.Consistent() {
				checks.Integrity = "ok"
			} else {
				checks.Integrity = fmt.Sprintf("violation: %d voted, %d ballots", last.Voted, last.Ballots)
				overallStatus = "degraded"
			}
		}

		httpx.WriteJSON(w, statusCode, boothsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
