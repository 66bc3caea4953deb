package project

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/auth"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport"
)

type ServiceAPI interface {
	GetCatalog(tenantID int64) ([]ProjectResponse, error)
	ProjectTasks(tenantID, projectID int64) ([]TaskResponse, error)
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

func (h *Handler) GetProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projects, err := h.Service.GetCatalog(user.TenantID)
	if err != nil {
		h.Logger.Error("GetProjects: failed to get project catalog", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get projects")
		return
	}

	h.WriteJSON(w, http.StatusOK, ProjectsResponse{
		Projects: projects,
	})
}

// GetProjectTasks handles GET /projects/{id}/tasks
func (h *Handler) GetProjectTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projectIDStr := chi.URLParam(r, "id")
	projectID, err := strconv.ParseInt(projectIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	tasks, err := h.Service.ProjectTasks(user.TenantID, projectID)
	if err != nil {
		h.Logger.Error("GetProjectTasks: service error", "error", err, "project_id", projectID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
	})
}
