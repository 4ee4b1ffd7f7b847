package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quickbite/ordering/internal/auth"
)

func testAuth() Auth {
	return Auth{Tokens: auth.Tokens{Secret: []byte("test-secret"), TTL: time.Hour}}
}

func bearer(t *testing.T, a Auth, id auth.Identity) string {
	t.Helper()
	token, err := a.Tokens.Issue(id, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func TestRequireRejectsMissingToken(t *testing.T) {
	a := testAuth()
	h := a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without credential")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRejectsBadToken(t *testing.T) {
	a := testAuth()
	h := a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with bad credential")
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequirePassesIdentity(t *testing.T) {
	a := testAuth()
	want := auth.Identity{UserID: 7, Username: "pat", Role: auth.RoleCustomer}

	var got auth.Identity
	h := a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", bearer(t, a, want))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got != want {
		t.Errorf("identity = %+v, want %+v", got, want)
	}
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	a := testAuth()
	h := a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("customer reached admin handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", bearer(t, a, auth.Identity{UserID: 7, Username: "pat", Role: auth.RoleCustomer}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestOptionalWithAndWithoutToken(t *testing.T) {
	a := testAuth()
	var sawIdentity bool
	h := a.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawIdentity = IdentityFrom(r.Context())
	}))

	// no token: request passes through anonymously
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))
	if rec.Code != http.StatusOK || sawIdentity {
		t.Errorf("anonymous pass-through: status=%d identity=%v", rec.Code, sawIdentity)
	}

	// invalid token: still anonymous, never an error
	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || sawIdentity {
		t.Errorf("invalid-token pass-through: status=%d identity=%v", rec.Code, sawIdentity)
	}

	// valid token: identity attached
	req = httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.Header.Set("Authorization", bearer(t, a, auth.Identity{UserID: 1, Username: "adm", Role: auth.RoleAdmin}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !sawIdentity {
		t.Errorf("authenticated pass-through: status=%d identity=%v", rec.Code, sawIdentity)
	}
}
