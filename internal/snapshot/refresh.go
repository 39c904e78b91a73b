package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medrush/opsconsole/internal/platform"
)

// Refresher pulls fresh listing rows for every registered endpoint and stores
// them. It authenticates with the service token (background jobs have no
// browser session to borrow a bearer token from).
type Refresher struct {
	client  *platform.Client
	store   *Store
	token   string
	maxRows int
}

// NewRefresher wires a refresher. maxRows caps how many rows one snapshot
// holds per entity.
func NewRefresher(client *platform.Client, store *Store, serviceToken string, maxRows int) *Refresher {
	if maxRows <= 0 {
		maxRows = 1000
	}
	return &Refresher{client: client, store: store, token: serviceToken, maxRows: maxRows}
}

// RefreshAll snapshots every endpoint. A failing entity is logged and
// skipped; the others still refresh. Returns the first error seen, for the
// caller's diagnostics.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	started := time.Now()
	var firstErr error
	for _, ep := range platform.Endpoints() {
		if err := r.refreshOne(ctx, ep); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("entity", ep.Name).Msg("Snapshot refresh failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	log.Ctx(ctx).Info().Dur("duration", time.Since(started)).Msg("Snapshot refresh completed")
	return firstErr
}

func (r *Refresher) refreshOne(ctx context.Context, ep platform.Endpoint) error {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("limit", strconv.Itoa(r.maxRows))

	env, err := r.client.Get(ctx, ep.ListPath, r.token, params)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", ep.Name, err)
	}
	rows, err := ep.Adapter().ExtractRows(env)
	if err != nil {
		return fmt.Errorf("extract %s rows: %w", ep.Name, err)
	}
	return r.store.Save(ctx, ep.Name, rows)
}
