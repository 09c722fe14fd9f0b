package middleware

import (
	"context"
	"errors"
	"net/http"

	authcore "github.com/hubforge/authcore"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity stored by [Guard], if any.
func IdentityFromContext(ctx context.Context) (*authcore.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*authcore.Identity)
	return identity, ok
}

// Guard rejects requests that do not carry a valid, unrevoked access token
// and stores the resulting identity in the request context. All token
// failures map to 401.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := engine.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole layers a role check on top of [Guard]. Identity failures map
// to 401, role failures to 403.
func RequireRole(engine *authcore.Engine, role string) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := IdentityFromContext(r.Context())
			if err := engine.RequireRole(identity, role); err != nil {
				if errors.Is(err, authcore.ErrForbidden) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// Optional decorates the context with an identity when one can be derived,
// and lets the request through either way.
func Optional(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine != nil {
				if identity := engine.OptionalAuthenticate(r.Context(), r.Header.Get("Authorization")); identity != nil {
					r = r.WithContext(context.WithValue(r.Context(), identityContextKey{}, identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
