package platform

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/medrush/opsconsole/internal/listing"
)

// Envelope is the platform API response wrapper. The row array lives inside
// jsonData under an endpoint-specific key; pagination metadata is optional.
type Envelope struct {
	Message    string          `json:"message,omitempty"`
	JSONData   json.RawMessage `json:"jsonData,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Pagination is the explicit metadata some list endpoints include.
type Pagination struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ErrEnvelope marks a response whose jsonData did not contain the expected
// endpoint key. It surfaces as a typed error instead of silently rendering an
// empty table.
var ErrEnvelope = errors.New("platform: unexpected response envelope")

// Adapter extracts rows and metadata for one endpoint's envelope shape. The
// per-endpoint key variability is an upstream contract; isolating it here
// keeps the listing binding generic.
type Adapter struct {
	// RowKey is the nested key under jsonData holding the row array,
	// e.g. "booking_list".
	RowKey string
}

// ExtractRows pulls the row array out of the envelope.
func (a Adapter) ExtractRows(env *Envelope) ([]listing.Row, error) {
	if env == nil || len(env.JSONData) == 0 {
		return nil, fmt.Errorf("%w: missing jsonData", ErrEnvelope)
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(env.JSONData, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvelope, err)
	}
	raw, ok := data[a.RowKey]
	if !ok {
		return nil, fmt.Errorf("%w: key %q not present", ErrEnvelope, a.RowKey)
	}
	var rows []listing.Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: key %q is not a row array: %v", ErrEnvelope, a.RowKey, err)
	}
	return rows, nil
}

// ExtractMeta returns explicit pagination metadata, or nil when the endpoint
// sent none and the caller must fall back to single-page derivation.
func (a Adapter) ExtractMeta(env *Envelope) *listing.PaginationMeta {
	if env == nil || env.Pagination == nil {
		return nil
	}
	return &listing.PaginationMeta{
		TotalItems: env.Pagination.Total,
		TotalPages: env.Pagination.TotalPages,
	}
}
