package listing

import (
	"context"
	"errors"
	"maps"
	"net/url"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Row is one backend record. Rows are opaque to the binding layer: schema
// ownership stays upstream, columns pull out only the fields they render.
type Row map[string]any

// CloneRows copies a page one map deep. Two views holding the same page must
// never share row maps: one side mutating a map another side is reading is a
// fatal runtime error, not a recoverable race. Field values are decoded JSON
// scalars and are shared as-is.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = maps.Clone(row)
	}
	return out
}

// Source produces one page of rows for a parameter set. The platform package
// provides the HTTP-backed implementation; tests substitute fakes. A nil meta
// means the endpoint returned no pagination envelope.
type Source interface {
	FetchRows(ctx context.Context, params url.Values) ([]Row, *PaginationMeta, error)
}

// Result is a normalized page: a never-nil row slice plus metadata.
type Result struct {
	Rows []Row
	Meta PaginationMeta
}

// ErrStale marks a fetch whose result was overtaken by a newer fetch for the
// same listing session. Callers drop stale results instead of rendering them.
var ErrStale = errors.New("listing: fetch result superseded")

// Guard serializes overlapping fetches for one listing session. Each fetch
// takes a ticket; only the newest ticket may publish its result. This closes
// the stale-response-overwrites-fresh-state race of a naive effect loop.
type Guard struct {
	seq atomic.Uint64
}

// Begin issues a ticket for a new fetch cycle.
func (g *Guard) Begin() uint64 {
	return g.seq.Add(1)
}

// Current reports whether the ticket is still the newest one.
func (g *Guard) Current(ticket uint64) bool {
	return g.seq.Load() == ticket
}

// Fetcher translates FilterState into exactly one Source call per change and
// normalizes the response.
type Fetcher struct {
	source   Source
	pageSize int
	guard    Guard
}

// NewFetcher binds a fetcher to its source with a fixed page size.
func NewFetcher(source Source, pageSize int) *Fetcher {
	return &Fetcher{source: source, pageSize: pageSize}
}

// PageSize returns the fixed page size this fetcher requests.
func (f *Fetcher) PageSize() int { return f.pageSize }

// Fetch loads one page for the given state. On any failure the result is the
// empty listing (rows [], zero meta) and the error is returned for the caller
// to surface: a failed cycle must blank a previously populated view, never
// leave stale rows standing. A result overtaken by a newer Fetch on the same
// fetcher comes back as ErrStale.
func (f *Fetcher) Fetch(ctx context.Context, state FilterState, extra url.Values) (Result, error) {
	ticket := f.guard.Begin()

	rows, meta, err := f.source.FetchRows(ctx, state.QueryParams(f.pageSize, extra))
	if !f.guard.Current(ticket) {
		return Result{Rows: []Row{}}, ErrStale
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Listing fetch failed")
		return Result{Rows: []Row{}}, err
	}
	if rows == nil {
		rows = []Row{}
	}
	return Result{Rows: rows, Meta: normalizeMeta(meta, len(rows), state.PageIndex, f.pageSize)}, nil
}

// normalizeMeta uses explicit upstream pagination metadata verbatim when
// present. Without it the page is treated as the whole listing, a degenerate
// single-page view, which is the documented approximation for endpoints that
// never paginate.
func normalizeMeta(meta *PaginationMeta, rowCount, pageIndex, pageSize int) PaginationMeta {
	if meta != nil {
		out := *meta
		out.PageIndex = pageIndex
		if out.TotalPages > 0 && out.PageIndex > out.TotalPages-1 {
			out.PageIndex = out.TotalPages - 1
		}
		return out
	}
	totalPages := 0
	if rowCount > 0 && pageSize > 0 {
		totalPages = (rowCount + pageSize - 1) / pageSize
	}
	return PaginationMeta{TotalItems: rowCount, TotalPages: totalPages, PageIndex: pageIndex}
}
