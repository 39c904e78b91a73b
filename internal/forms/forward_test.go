package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/medrush/opsconsole/internal/platform"
)

func jsonRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/drivers", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func multipartRequest(t *testing.T, fields map[string]string, fileField, fileName, fileBody string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := io.WriteString(part, fileBody); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/drivers", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func TestParseSubmissionJSON(t *testing.T) {
	sub, err := ParseSubmission(jsonRequest(t, `{
		"driver_name": "Asha",
		"wallet_balance": 1500.5,
		"verified": true,
		"remarks": null
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := map[string]string{
		"driver_name":    "Asha",
		"wallet_balance": "1500.5",
		"verified":       "true",
		"remarks":        "",
	}
	for field, expected := range want {
		if got := sub.Fields[field]; got != expected {
			t.Errorf("field %s: got %q, want %q", field, got, expected)
		}
	}
}

func TestParseSubmissionBadJSON(t *testing.T) {
	if _, err := ParseSubmission(jsonRequest(t, `{"driver_name": `)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestParseSubmissionMultipart(t *testing.T) {
	r := multipartRequest(t, map[string]string{"driver_name": "Asha"}, "license_scan", "scan.png", "pngbytes")
	sub, err := ParseSubmission(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub.Fields["driver_name"] != "Asha" {
		t.Errorf("field: got %q", sub.Fields["driver_name"])
	}
}

func TestForwardJSON(t *testing.T) {
	var gotBody map[string]any
	var gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode forwarded body: %v", err)
		}
		w.Write([]byte(`{"message":"created"}`))
	}))
	defer server.Close()
	client := platform.NewClient(server.URL, 5*time.Second)

	sub, err := ParseSubmission(jsonRequest(t, `{"driver_name": "Asha", "wallet_balance": 1500.5}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	env, err := sub.Forward(context.Background(), client, http.MethodPost, "/admin/driver", "tok")
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if env.Message != "created" {
		t.Errorf("message: got %q", env.Message)
	}
	if gotType != "application/json" {
		t.Errorf("content type: got %q", gotType)
	}
	// Numeric values keep their JSON type on the way through.
	if gotBody["wallet_balance"] != 1500.5 {
		t.Errorf("wallet_balance: got %v", gotBody["wallet_balance"])
	}
}

func TestForwardMultipartStreamsFiles(t *testing.T) {
	var gotFields map[string]string
	var gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("content type: %q (%v)", r.Header.Get("Content-Type"), err)
			return
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		form, err := reader.ReadForm(1 << 20)
		if err != nil {
			t.Errorf("read forwarded form: %v", err)
			return
		}
		gotFields = map[string]string{}
		for name, values := range form.Value {
			gotFields[name] = values[0]
		}
		if headers := form.File["license_scan"]; len(headers) == 1 {
			f, err := headers[0].Open()
			if err == nil {
				body, _ := io.ReadAll(f)
				f.Close()
				gotFile = string(body)
			}
		}
		w.Write([]byte(`{"message":"created"}`))
	}))
	defer server.Close()
	client := platform.NewClient(server.URL, 5*time.Second)

	r := multipartRequest(t, map[string]string{"driver_name": "Asha"}, "license_scan", "scan.png", "pngbytes")
	sub, err := ParseSubmission(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := sub.Forward(context.Background(), client, http.MethodPost, "/admin/driver", "tok"); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if gotFields["driver_name"] != "Asha" {
		t.Errorf("forwarded fields: got %v", gotFields)
	}
	if gotFile != "pngbytes" {
		t.Errorf("forwarded file: got %q", gotFile)
	}
}
