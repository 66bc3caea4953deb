package export

import (
	"net/http"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/auth"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/timeutil"
)

type ServiceAPI interface {
	ExportApproved(tenantID int64, start, end time.Time) (*Result, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ExportCSV handles GET /export?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Defaults to the first of the current month through today.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now

	if startStr := r.URL.Query().Get("start"); startStr != "" {
		parsed, err := timeutil.ParseDateKey(startStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "start must be in YYYY-MM-DD format")
			return
		}
		start = parsed
	}
	if endStr := r.URL.Query().Get("end"); endStr != "" {
		parsed, err := timeutil.ParseDateKey(endStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "end must be in YYYY-MM-DD format")
			return
		}
		end = parsed
	}

	if end.Before(start) {
		h.WriteError(w, http.StatusBadRequest, "end must not be before start")
		return
	}

	result, err := h.Service.ExportApproved(user.TenantID, start, end)
	if err != nil {
		h.Logger.Error("ExportCSV: service error", "error", err, "tenant_id", user.TenantID)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Content); err != nil {
		h.Logger.Error("ExportCSV: failed to write response", "error", err)
	}
}
