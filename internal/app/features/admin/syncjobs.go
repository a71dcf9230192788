// internal/app/features/admin/syncjobs.go
package admin

import (
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	"github.com/dalemusser/primementor/internal/app/store/audit"
	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/app/system/paging"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

type syncJobsResponse struct {
	Success bool             `json:"success"`
	Jobs    []models.SyncJob `json:"jobs"`
}

// ListSyncJobs handles GET /api/admin/sync-jobs[?status=&limit=].
func (h *Handler) ListSyncJobs(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(query.Get(r, "status"))
	switch status {
	case "", models.SyncPending, models.SyncDone, models.SyncFailed:
	default:
		uierrors.Fail(w, http.StatusBadRequest, "Status must be pending, done or failed.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list sync jobs")
	defer cancel()

	jobs, err := h.SyncJobs.List(ctx, status, paging.Limit(r, paging.DefaultLimit))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list sync jobs failed", err, "A database error occurred.")
		return
	}
	uierrors.JSON(w, http.StatusOK, syncJobsResponse{Success: true, Jobs: jobs})
}

// RetrySyncJobs handles POST /api/admin/sync-jobs/retry.
func (h *Handler) RetrySyncJobs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin retry sync jobs")
	defer cancel()

	n, err := h.SyncJobs.RetryFailed(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "retry sync jobs failed", err, "A database error occurred.")
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventSyncJobsRetried, actorID(r), "",
		map[string]string{"count": strconv.FormatInt(n, 10)})
	uierrors.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"requeued": n,
	})
}
