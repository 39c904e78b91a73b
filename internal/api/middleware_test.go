package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithBearerToken(t *testing.T) {
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := WithBearerToken(next)

	t.Run("token extracted", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/drivers", nil)
		r.Header.Set("Authorization", "Bearer tok-abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status: got %d", w.Code)
		}
		if gotToken != "tok-abc" {
			t.Errorf("token: got %q", gotToken)
		}
	})

	t.Run("case-insensitive scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/drivers", nil)
		r.Header.Set("Authorization", "bearer tok-xyz")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if gotToken != "tok-xyz" {
			t.Errorf("token: got %q", gotToken)
		}
	})

	t.Run("missing token rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/drivers", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", w.Code)
		}
	})

	t.Run("health endpoint skips auth", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status: got %d", w.Code)
		}
	})
}

func TestWithRequestID(t *testing.T) {
	var gotID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	})
	handler := WithRequestID(next)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if gotID == "" {
		t.Error("expected a request ID in context")
	}
	if header := w.Header().Get("X-Request-ID"); header != gotID {
		t.Errorf("header %q does not match context %q", header, gotID)
	}
}

func TestChainMiddlewareOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := ChainMiddleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		mk("inner"),
		mk("outer"),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order: got %v", order)
	}
}
