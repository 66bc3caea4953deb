package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/auth"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/logger"
)

type ServiceAPI interface {
	GetByID(tenantID, userID int64) (*User, error)
	ListByTenant(tenantID int64) ([]*User, error)
	Create(tenantID int64, dto CreateUserDTO) (*User, error)
	UpdateRole(tenantID, userID int64, dto UpdateRoleDTO) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetCurrentUser: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(user.TenantID, user.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "user_id", user.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetUsers handles GET /users for managers
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetUsers: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := h.Service.ListByTenant(user.TenantID)
	if err != nil {
		h.Logger.Error("GetUsers: service error", "tenant_id", user.TenantID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

// CreateUser handles POST /users for managers
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateUser: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(user.TenantID, dto)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "tenant_id", user.TenantID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateUser: user created", "user_id", created.ID, "tenant_id", user.TenantID)
	h.WriteJSON(w, http.StatusCreated, created)
}

// UpdateUserRole handles PATCH /users/{id}/role for managers
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("UpdateUserRole: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userIDStr := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("UpdateUserRole: invalid user ID", "id", userIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateUserRole: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateRole(user.TenantID, userID, dto)
	if err != nil {
		h.Logger.Error("UpdateUserRole: service error", "user_id", userID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateUserRole: role updated", "user_id", userID, "role", updated.Role)
	h.WriteJSON(w, http.StatusOK, updated)
}
