// Package listings exposes one entity listing tab over HTTP: filtered
// paginated rows, status toggles, form submissions and exports. Feature
// packages under internal/api declare a column table and validation rules,
// then register a Handler; everything else here is shared.
package listings

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medrush/opsconsole/internal/api"
	"github.com/medrush/opsconsole/internal/api/apiutil"
	"github.com/medrush/opsconsole/internal/export"
	"github.com/medrush/opsconsole/internal/forms"
	"github.com/medrush/opsconsole/internal/listing"
	"github.com/medrush/opsconsole/internal/platform"
	"github.com/medrush/opsconsole/internal/ratelimit"
	"github.com/medrush/opsconsole/internal/snapshot"
)

// Options carries the per-deployment knobs shared by all handlers.
type Options struct {
	PageSize      int
	ExportMaxRows int
	Limiter       *ratelimit.Limiter
	Snapshots     *snapshot.Store
}

// Handler serves one listing tab.
type Handler struct {
	client   *platform.Client
	endpoint platform.Endpoint
	table    listing.Table
	rules    forms.Rules
	opts     Options
	sessions *sessionPool
}

// New builds a handler for one endpoint.
func New(client *platform.Client, ep platform.Endpoint, table listing.Table, rules forms.Rules, opts Options) *Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.ExportMaxRows <= 0 {
		opts.ExportMaxRows = 5000
	}
	return &Handler{
		client:   client,
		endpoint: ep,
		table:    table,
		rules:    rules,
		opts:     opts,
		sessions: newSessionPool(opts.PageSize),
	}
}

// Register mounts the tab's routes on the mux under /api/v1/<name>.
func (h *Handler) Register(mux *http.ServeMux) {
	base := "/api/v1/" + h.endpoint.Name
	mux.HandleFunc("GET "+base, h.HandleList)
	mux.HandleFunc("GET "+base+"/export", h.HandleExport)
	if h.endpoint.Toggleable() {
		mux.HandleFunc("PATCH "+base+"/{id}/status", h.HandleToggle)
	}
	if h.endpoint.CreatePath != "" {
		mux.HandleFunc("POST "+base, h.HandleCreate)
	}
	if h.endpoint.UpdatePath != "" {
		mux.HandleFunc("PUT "+base+"/{id}", h.HandleUpdate)
	}
}

// listPayload is the listing response the admin grid binds to.
type listPayload struct {
	Headers  []string               `json:"headers"`
	Rows     []listing.BoundRow     `json:"rows"`
	Meta     listing.PaginationMeta `json:"meta"`
	Controls listing.PageControls   `json:"controls"`
	Query    string                 `json:"query"`
	Stale    bool                   `json:"stale,omitempty"`
	Alert    string                 `json:"alert,omitempty"`
}

// HandleList serves one page of the listing. The filter state round-trips
// through the URL query string; the canonical encoding is echoed back so the
// UI can keep the address bar in sync.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	token := api.TokenFromContext(r.Context())
	state := listing.ParseQuery(r.URL.Query())

	sess := h.sessions.get(token)
	source := h.client.ListSource(h.endpoint, token)
	result, err := sess.fetch(r.Context(), source, state)

	payload := listPayload{
		Headers: h.table.Headers(),
		Rows:    []listing.BoundRow{},
		Query:   state.EncodeQuery().Encode(),
	}
	switch {
	case errors.Is(err, listing.ErrStale):
		// A newer fetch for this session already won; tell the UI to drop this one.
		payload.Stale = true
	case err != nil:
		payload.Alert = fetchAlert(err)
	default:
		payload.Rows = h.table.Bind(result.Rows, h.endpoint.IDKey)
		payload.Meta = result.Meta
		payload.Controls = listing.Controls(result.Meta)
	}
	apiutil.WriteJSON(w, http.StatusOK, payload)
}

// HandleToggle flips one row's status upstream and optimistically updates the
// session's local copy. A failed PATCH leaves local state untouched; the
// stale badge in the grid is the accepted trade-off.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	token := api.TokenFromContext(r.Context())
	if !h.allow("toggle", token, r, w) {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		apiutil.WriteAlert(w, http.StatusBadRequest, "Missing row id")
		return
	}

	sess := h.sessions.get(token)
	current, known := sess.status(h.endpoint, id)
	if !known {
		// Row not in the session view (fresh tab, direct API call); fall back
		// to the value the client saw.
		var body struct {
			Current string `json:"current"`
		}
		if err := apiutil.DecodeJSON(r, &body); err == nil {
			current = body.Current
		}
	}
	next := h.endpoint.InvertStatus(current)

	if _, err := h.client.ToggleStatus(r.Context(), h.endpoint, token, id, next); err != nil {
		log.Ctx(r.Context()).Error().Err(err).
			Str("entity", h.endpoint.Name).
			Str("row_id", id).
			Msg("Status toggle failed")
		apiutil.WriteAlert(w, http.StatusBadGateway, "Could not update status, please try again")
		return
	}

	sess.setStatus(h.endpoint, id, next)
	apiutil.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": next})
}

// HandleExport streams the current filtered listing as csv or xlsx. When the
// platform API is down the latest snapshot stands in, marked by the
// X-Snapshot-At header.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	token := api.TokenFromContext(r.Context())
	if !h.allow("export", token, r, w) {
		return
	}
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		apiutil.WriteAlert(w, http.StatusBadRequest, "Unknown export format")
		return
	}

	state := listing.ParseQuery(r.URL.Query())
	state.PageIndex = 0
	source := h.client.ListSource(h.endpoint, token)
	fetcher := listing.NewFetcher(source, h.opts.ExportMaxRows)

	result, err := fetcher.Fetch(r.Context(), state, nil)
	rows := result.Rows
	if err != nil && h.opts.Snapshots != nil {
		info, snapRows, snapErr := h.opts.Snapshots.Latest(r.Context(), h.endpoint.Name)
		if snapErr != nil {
			apiutil.WriteAlert(w, http.StatusBadGateway, fetchAlert(err))
			return
		}
		log.Ctx(r.Context()).Warn().Err(err).
			Str("entity", h.endpoint.Name).
			Time("snapshot_at", info.TakenAt).
			Msg("Export served from snapshot")
		w.Header().Set("X-Snapshot-At", info.TakenAt.Format(time.RFC3339))
		rows = snapRows
	} else if err != nil {
		apiutil.WriteAlert(w, http.StatusBadGateway, fetchAlert(err))
		return
	}

	filename := export.Filename(h.endpoint.Name, format, time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Write(w, format, h.endpoint.Name, h.table.Headers(), h.table.Bind(rows, h.endpoint.IDKey)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("entity", h.endpoint.Name).Msg("Export write failed")
	}
}

// HandleCreate validates and forwards a create form.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.handleSubmit(w, r, http.MethodPost, h.endpoint.CreatePath)
}

// HandleUpdate validates and forwards an edit form.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		apiutil.WriteAlert(w, http.StatusBadRequest, "Missing row id")
		return
	}
	h.handleSubmit(w, r, http.MethodPut, fmt.Sprintf(h.endpoint.UpdatePath, id))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request, method, path string) {
	token := api.TokenFromContext(r.Context())
	if !h.allow("submit", token, r, w) {
		return
	}

	submission, err := forms.ParseSubmission(r)
	if err != nil {
		apiutil.WriteAlert(w, http.StatusBadRequest, "Could not read form submission")
		return
	}
	if fieldErrs := h.rules.Validate(submission.Fields); len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}

	env, err := submission.Forward(r.Context(), h.client, method, path, token)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).
			Str("entity", h.endpoint.Name).
			Str("path", path).
			Msg("Form forward failed")
		apiutil.WriteAlert(w, http.StatusBadGateway, "Submission failed, please try again")
		return
	}

	message := env.Message
	if message == "" {
		message = "Saved"
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *Handler) allow(op, token string, r *http.Request, w http.ResponseWriter) bool {
	if h.opts.Limiter == nil {
		return true
	}
	ip := ratelimit.GetClientIP(r, true)
	if result := h.opts.Limiter.Allow(h.endpoint.Name+":"+op, token, ip); !result.Allowed {
		ratelimit.LogRateLimitExceeded(h.endpoint.Name+":"+op, ip, result.Reason)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())+1))
		apiutil.WriteAlert(w, http.StatusTooManyRequests, "Too many requests, slow down")
		return false
	}
	return true
}

func writeFieldErrors(w http.ResponseWriter, errs []forms.FieldError) {
	converted := make([]apiutil.FieldError, len(errs))
	for i, e := range errs {
		converted[i] = apiutil.FieldError{Field: e.Field, Reason: e.Reason}
	}
	apiutil.WriteFieldErrors(w, converted)
}

// fetchAlert maps upstream failures to the banner text shown to operators.
func fetchAlert(err error) string {
	switch {
	case errors.Is(err, platform.ErrUnauthorized):
		return "Your session is no longer authorized, please sign in again"
	case errors.Is(err, platform.ErrEnvelope):
		return "The platform returned an unexpected response shape"
	default:
		return "Could not load data, please try again"
	}
}
