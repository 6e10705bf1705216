package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/biovote/pkg/jwtx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
)

// AuthnMiddleware admits requests carrying a valid official bearer token and
// tags the request logger with the official's subject. Failures get a bare
// 401 with a WWW-Authenticate challenge (RFC 6750).
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			raw = strings.TrimSpace(raw)
			if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				challenge(w, "official token required")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("official token rejected", "err", err)
				challenge(w, "official token invalid")
				return
			}
			if err := claims.ValidateExpiry(); err != nil {
				challenge(w, "official token expired")
				return
			}

			ctx = withOfficial(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withOfficial(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeySubject, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyScopes, c.Scopes)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return slogx.With(ctx, "official", c.Subject)
}

func challenge(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="booth", error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
