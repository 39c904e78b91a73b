package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/medrush/opsconsole/internal/platform"
)

// maxFormMemory bounds how much of a multipart submission stays in memory;
// larger file parts spill to temp files.
const maxFormMemory = 32 << 20

// Submission is a decoded form request: flat fields for validation plus the
// original request for multipart re-encoding.
type Submission struct {
	Fields    map[string]string
	multipart bool
	request   *http.Request
	rawJSON   map[string]any
}

// ParseSubmission decodes a JSON or multipart form request into a flat field
// map. JSON bodies must be a single flat object; nested values are rejected
// the same way the upstream API would reject them.
func ParseSubmission(r *http.Request) (*Submission, error) {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("parse content type: %w", err)
	}

	if contentType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		fields := make(map[string]string, len(r.MultipartForm.Value))
		for name, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				fields[name] = values[0]
			}
		}
		return &Submission{Fields: fields, multipart: true, request: r}, nil
	}

	var raw map[string]any
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode form body: %w", err)
	}
	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case string:
			fields[name] = v
		case float64:
			fields[name] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
		case bool:
			fields[name] = fmt.Sprintf("%t", v)
		case nil:
			fields[name] = ""
		default:
			fields[name] = fmt.Sprintf("%v", v)
		}
	}
	return &Submission{Fields: fields, rawJSON: raw}, nil
}

// Forward sends the validated submission upstream, preserving its original
// encoding: JSON bodies are re-marshalled, multipart bodies are rebuilt and
// streamed part by part so files never get buffered twice.
func (s *Submission) Forward(ctx context.Context, client *platform.Client, method, path, token string) (*platform.Envelope, error) {
	if !s.multipart {
		switch method {
		case http.MethodPost:
			return client.PostJSON(ctx, path, token, s.rawJSON)
		case http.MethodPut:
			return client.PutJSON(ctx, path, token, s.rawJSON)
		default:
			return nil, fmt.Errorf("forms: unsupported forward method %s", method)
		}
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeParts(writer, s.request.MultipartForm))
	}()
	return client.SendBody(ctx, method, path, token, writer.FormDataContentType(), pr)
}

func writeParts(writer *multipart.Writer, form *multipart.Form) error {
	for name, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(name, value); err != nil {
				return err
			}
		}
	}
	for name, headers := range form.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return fmt.Errorf("open form file %s: %w", name, err)
			}
			part, err := writer.CreateFormFile(name, header.Filename)
			if err != nil {
				file.Close()
				return err
			}
			if _, err := io.Copy(part, file); err != nil {
				file.Close()
				return fmt.Errorf("copy form file %s: %w", name, err)
			}
			file.Close()
		}
	}
	return writer.Close()
}
