// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	"github.com/dalemusser/primementor/internal/app/store/audit"
	"github.com/dalemusser/primementor/internal/app/system/paging"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /api/admin/audit-events.
//
// Query parameters: category, event_type, actor_id, target_id,
// since (YYYY-MM-DD) and limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(query.Get(r, "category"))
	eventType := strings.ToLower(query.Get(r, "event_type"))

	if category != "" && eventTypesForCategory(category) == nil {
		uierrors.Fail(w, http.StatusBadRequest, "Unknown audit category.")
		return
	}
	if eventType != "" && !knownEventType(category, eventType) {
		uierrors.Fail(w, http.StatusBadRequest, "Unknown audit event type.")
		return
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		ActorID:   query.Get(r, "actor_id"),
		TargetID:  query.Get(r, "target_id"),
		Limit:     paging.Limit(r, paging.DefaultLimit),
	}
	if since := query.Get(r, "since"); since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			uierrors.Fail(w, http.StatusBadRequest, "Since must be a date in YYYY-MM-DD format.")
			return
		}
		filter.Since = &t
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit event list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "A database error occurred.")
		return
	}
	uierrors.JSON(w, http.StatusOK, listResponse{Success: true, Count: len(events), Events: events})
}
