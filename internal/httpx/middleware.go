package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/quickbite/ordering/internal/auth"
)

type ctxKey int

const identityKey ctxKey = 0

// IdentityFrom returns the identity the middleware resolved, if any.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// Auth resolves bearer credentials once at the boundary. Handlers read the
// identity from the context and never touch tokens.
type Auth struct {
	Tokens auth.Tokens
}

func (a Auth) identity(r *http.Request) (auth.Identity, bool) {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return auth.Identity{}, false
	}
	id, err := a.Tokens.Verify(strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return auth.Identity{}, false
	}
	return id, true
}

// Require rejects requests without a valid credential.
func (a Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.identity(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// RequireAdmin additionally demands the admin role.
func (a Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())
		if !id.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// Optional attaches an identity when a valid credential is present and passes
// the request through either way. Public routes branch on the result instead
// of decoding tokens themselves.
func (a Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := a.identity(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
		}
		next.ServeHTTP(w, r)
	})
}
