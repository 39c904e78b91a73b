package listings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/medrush/opsconsole/internal/format"
	"github.com/medrush/opsconsole/internal/listing"
	"github.com/medrush/opsconsole/internal/platform"
)

// sessionTTL is how long an idle listing session keeps its local row state.
const sessionTTL = 30 * time.Minute

// session is the server-side stand-in for one operator's open listing tab:
// the fetcher with its staleness guard, plus the local copy of the last
// successful page that status toggles update optimistically.
type session struct {
	mu       sync.Mutex
	pageSize int
	fetcher  *listing.Fetcher
	rows     []listing.Row
	meta     listing.PaginationMeta
	lastSeen time.Time
}

// fetch loads a page and publishes it as the session's current view. The
// published view is a copy: the returned result's row maps go straight into a
// response, and setStatus must never write into maps a concurrent HandleList
// is reading. A superseded fetch (ErrStale) leaves the view untouched; a
// failed fetch blanks it, matching the empty-table failure contract.
func (s *session) fetch(ctx context.Context, source listing.Source, state listing.FilterState) (listing.Result, error) {
	s.mu.Lock()
	if s.fetcher == nil {
		s.fetcher = listing.NewFetcher(source, s.pageSize)
	}
	fetcher := s.fetcher
	s.mu.Unlock()

	result, err := fetcher.Fetch(ctx, state, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	switch err {
	case nil:
		s.rows = listing.CloneRows(result.Rows)
		s.meta = result.Meta
	case listing.ErrStale:
		// keep the newer view
	default:
		s.rows = []listing.Row{}
		s.meta = listing.PaginationMeta{}
	}
	return result, err
}

// status looks up a row's raw status value in the session view.
func (s *session) status(ep platform.Endpoint, id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.String(ep.IDKey) == id {
			return format.StatusKey(row[ep.StatusField]), true
		}
	}
	return "", false
}

// setStatus updates the session's copy of the row after a successful toggle,
// matched by primary key. Only this copy is written; rows already handed to a
// response are never touched. No refetch happens; the next fetch replaces the
// view anyway.
func (s *session) setStatus(ep platform.Endpoint, id, next string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.String(ep.IDKey) == id {
			row[ep.StatusField] = next
			return
		}
	}
}

// sessionPool hands out per-bearer-token sessions and prunes idle ones.
type sessionPool struct {
	mu       sync.Mutex
	pageSize int
	sessions map[string]*session
}

func newSessionPool(pageSize int) *sessionPool {
	return &sessionPool{pageSize: pageSize, sessions: make(map[string]*session)}
}

func (p *sessionPool) get(token string) *session {
	key := tokenKey(token)
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()
	for k, s := range p.sessions {
		s.mu.Lock()
		idle := !s.lastSeen.IsZero() && now.Sub(s.lastSeen) > sessionTTL
		s.mu.Unlock()
		if idle && k != key {
			delete(p.sessions, k)
		}
	}
	sess, ok := p.sessions[key]
	if !ok {
		sess = &session{pageSize: p.pageSize, lastSeen: now}
		p.sessions[key] = sess
	}
	return sess
}

// tokenKey hashes the bearer token; raw credentials never key a map or reach
// a log line.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
