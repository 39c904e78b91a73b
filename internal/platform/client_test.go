package platform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second)
}

func TestClientForwardsBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"message":"ok"}`))
	})

	_, err := client.Get(context.Background(), "/admin/driver/list", "tok-123", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("authorization header: got %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept header: got %q", gotAccept)
	}
}

func TestClientGetSendsQueryParams(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"message":"ok"}`))
	})

	params := url.Values{"page": {"2"}, "limit": {"10"}, "date": {"today"}}
	if _, err := client.Get(context.Background(), "/admin/booking/list", "t", params); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotQuery.Get("page") != "2" || gotQuery.Get("date") != "today" {
		t.Errorf("query params not forwarded: %v", gotQuery)
	}
}

func TestClientUnauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := client.Get(context.Background(), "/admin/driver/list", "expired", nil)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("status %d: expected ErrUnauthorized, got %v", status, err)
		}
	}
}

func TestClientStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	_, err := client.Get(context.Background(), "/admin/driver/list", "t", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status code: got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "upstream exploded" {
		t.Errorf("body: got %q", statusErr.Body)
	}
}

func TestToggleStatusPatch(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte(`{"message":"updated"}`))
	})

	env, err := client.ToggleStatus(context.Background(), Drivers, "tok", "88", "0")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if env.Message != "updated" {
		t.Errorf("message: got %q", env.Message)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method: got %q", gotMethod)
	}
	if gotPath != "/admin/driver/88/status" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotBody != `{"driver_status":"0"}` {
		t.Errorf("body: got %q", gotBody)
	}
}

func TestToggleStatusReadOnlyEndpoint(t *testing.T) {
	client := NewClient("http://unused", time.Second)
	if _, err := client.ToggleStatus(context.Background(), Bookings, "tok", "1", "0"); err == nil {
		t.Error("expected error for endpoint without a toggle")
	}
}

func TestListSource(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != Drivers.ListPath {
			t.Errorf("path: got %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"message": "success",
			"jsonData": {"driver_list": [{"driver_id": 7, "driver_name": "Asha"}]},
			"pagination": {"total": 31, "totalPages": 4}
		}`))
	})

	source := client.ListSource(Drivers, "tok")
	rows, meta, err := source.FetchRows(context.Background(), url.Values{"page": {"1"}})
	if err != nil {
		t.Fatalf("fetch rows: %v", err)
	}
	if len(rows) != 1 || rows[0]["driver_name"] != "Asha" {
		t.Errorf("rows: got %v", rows)
	}
	if meta == nil || meta.TotalItems != 31 || meta.TotalPages != 4 {
		t.Errorf("meta: got %+v", meta)
	}
}
