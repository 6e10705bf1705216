package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/capture"
	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/httpx"
	"github.com/aussiebroadwan/biovote/pkg/jwtx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"

	_ "github.com/aussiebroadwan/biovote/api/booth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys           *jwtx.KeySet
	verifier       jwtx.Verifier
	buildVersion   string
	startTime      time.Time
	logger         *slog.Logger
	maxSampleBytes int64

	store             store.Store
	EnrollmentService *service.EnrollmentService
	BallotService     *service.BallotService
	OfficialService   *service.OfficialService
	IntegrityService  *service.IntegrityService // Optional: adds an integrity check to /readyz
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	maxSampleBytes int64,
) *Router {
	if maxSampleBytes <= 0 {
		maxSampleBytes = capture.DefaultMaxSampleBytes
	}
	r := &Router{
		Mux:            http.NewServeMux(),
		keys:           keys,
		verifier:       verifier,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
		maxSampleBytes: maxSampleBytes,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOfficials()
	r.registerVoters()
	r.registerBallots()
	r.registerResults()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			biovote Booth Service API
//	@version		0.1.0
//	@description	Biometric-gated ballot casting. Officials enroll voters and read results with a short-lived
//	@description	EdDSA-signed JWT obtained from a TOTP code; voters cast exactly one ballot by presenting
//	@description	fresh face and eye samples.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/biovote
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Official access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOfficials() {
	h := &OfficialTokenHandler{OfficialService: r.OfficialService}

	// Strict by IP: six digit codes are brute-forceable otherwise.
	r.Mux.Handle("POST /v1/officials/token",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerVoters() {
	h := &VotersHandler{
		EnrollmentService: r.EnrollmentService,
		MaxSampleBytes:    r.maxSampleBytes,
	}

	securedEnroll := httpx.Chain(http.HandlerFunc(h.HandleEnroll),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(service.ScopeVotersWrite),
		httpx.RateLimitBySubject(httpx.LenientLimit),
	)

	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(service.ScopeVotersWrite),
		httpx.RateLimitBySubject(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/voters", securedEnroll)
	r.Mux.Handle("GET /v1/voters/{id}", securedGet)
}

func (r *Router) registerBallots() {
	h := &BallotsHandler{
		BallotService:  r.BallotService,
		MaxSampleBytes: r.maxSampleBytes,
	}

	// Keyed by booth address and voter id so one voter cannot hammer the
	// verifier, while a busy booth still serves other voters. The address
	// gate runs first so a flood is refused before its upload is parsed.
	r.Mux.Handle("POST /v1/ballots",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.LenientLimit),
			httpx.RateLimitByIPAndMultipartField(httpx.StrictLimit, "voter_id", capture.FormLimit(r.maxSampleBytes)),
		),
	)
}

func (r *Router) registerResults() {
	h := &ResultsHandler{BallotService: r.BallotService}

	r.Mux.Handle("GET /v1/results",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeTallyRead),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.IntegrityService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
