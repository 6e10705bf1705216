package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// RequireAnyScope admits officials holding at least one of required. Runs
// after AuthnMiddleware.
func RequireAnyScope(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := scopesFromCtx(r.Context())
			if slices.ContainsFunc(required, func(s string) bool { return slices.Contains(have, s) }) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("WWW-Authenticate", `Bearer realm="booth", error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
			WriteError(w, http.StatusForbidden, "insufficient_scope", "requires one of: "+strings.Join(required, ", "))
		})
	}
}
