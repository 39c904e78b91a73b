package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Upstream is a fake platform API for handler tests. Register canned
// responses per path; requests are recorded for assertions.
type Upstream struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// RecordedRequest captures what a handler sent upstream.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Token  string
	Body   []byte
}

// NewUpstream starts a fake platform server. It shuts down with the test.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{t: t, handlers: make(map[string]http.HandlerFunc)}
	u.server = httptest.NewServer(http.HandlerFunc(u.dispatch))
	t.Cleanup(u.server.Close)
	return u
}

// URL is the fake server's base URL.
func (u *Upstream) URL() string { return u.server.URL }

// Handle registers a handler for method+path, e.g. "GET /admin/bookings".
func (u *Upstream) Handle(pattern string, h http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.handlers[pattern] = h
}

// HandleEnvelope registers a handler that always responds with the given
// envelope payload.
func (u *Upstream) HandleEnvelope(pattern string, status int, payload map[string]any) {
	u.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			u.t.Errorf("encode upstream response: %v", err)
		}
	})
}

// Requests returns a copy of everything received so far.
func (u *Upstream) Requests() []RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]RecordedRequest, len(u.requests))
	copy(out, u.requests)
	return out
}

// LastRequest returns the most recent request, failing the test if none
// arrived.
func (u *Upstream) LastRequest() RecordedRequest {
	u.t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		u.t.Fatal("no upstream requests recorded")
	}
	return u.requests[len(u.requests)-1]
}

func (u *Upstream) dispatch(w http.ResponseWriter, r *http.Request) {
	body := readAll(u.t, r)

	u.mu.Lock()
	u.requests = append(u.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Token:  bearerToken(r),
		Body:   body,
	})
	h := u.handlers[r.Method+" "+r.URL.Path]
	u.mu.Unlock()

	if h == nil {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

func readAll(t *testing.T, r *http.Request) []byte {
	t.Helper()
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, err := r.Body.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			return buf
		}
	}
}

// ListEnvelope builds a list response envelope: rows under jsonData[rowKey],
// with optional pagination metadata.
func ListEnvelope(rowKey string, rows []map[string]any, total, totalPages int) map[string]any {
	payload := map[string]any{
		"message":  "success",
		"jsonData": map[string]any{rowKey: rows},
	}
	if totalPages > 0 {
		payload["pagination"] = map[string]any{"total": total, "totalPages": totalPages}
	}
	return payload
}

// MessageEnvelope builds a bare message envelope, as mutation endpoints
// return.
func MessageEnvelope(message string) map[string]any {
	return map[string]any{"message": message}
}
