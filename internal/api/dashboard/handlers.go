// internal/api/dashboard/handlers.go
package dashboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medrush/opsconsole/internal/api/apiutil"
	"github.com/medrush/opsconsole/internal/snapshot"
)

// EntityCount is one entity's row count in the summary strip.
type EntityCount struct {
	Entity   string `json:"entity"`
	Count    int    `json:"count"`
	TakenAt  string `json:"takenAt"`
	AgeHuman string `json:"age"`
}

// Handler serves the dashboard summary from the latest listing snapshots.
// Counting from snapshots keeps the landing page up even when the platform
// API is briefly unreachable; the age field tells operators how fresh the
// numbers are.
type Handler struct {
	store *snapshot.Store
}

// New builds the dashboard handler.
func New(store *snapshot.Store) *Handler {
	return &Handler{store: store}
}

// Register mounts the dashboard routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/dashboard/summary", h.HandleSummary)
}

// HandleSummary returns per-entity row counts from the snapshot store.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	infos, err := h.store.Summary(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load snapshot summary")
		apiutil.WriteAlert(w, http.StatusInternalServerError, "Could not load dashboard summary")
		return
	}

	now := time.Now()
	counts := make([]EntityCount, 0, len(infos))
	for _, info := range infos {
		counts = append(counts, EntityCount{
			Entity:   info.Entity,
			Count:    info.RowCount,
			TakenAt:  info.TakenAt.Format(time.RFC3339),
			AgeHuman: humanAge(now.Sub(info.TakenAt)),
		})
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]any{"entities": counts})
}

// humanAge renders an age as its leading unit only: "17m ago", never
// "17m0s ago".
func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours())/24)
	}
}
