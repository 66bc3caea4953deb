package timesheet

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/auth"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/logger"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/timeutil"
)

type ServiceAPI interface {
	WeekSheet(tenantID, contractorID int64, week time.Time, draftRows []DraftRow) (*Sheet, error)
	UpsertEntry(tenantID int64, actor Actor, dto UpsertEntryDTO) (*Entry, error)
	DeleteEntry(tenantID, contractorID, entryID int64) error
	SubmitWeek(tenantID int64, actor Actor, dto SubmitWeekDTO) (*SubmitResult, error)
	ApproveWeek(tenantID int64, reviewer Actor, dto ApproveWeekDTO) error
	RejectWeek(tenantID int64, reviewer Actor, dto RejectWeekDTO) error
	RevertWeek(tenantID int64, reviewer Actor, dto RevertWeekDTO) error
	UpdateComment(tenantID int64, reviewer Actor, dto UpdateCommentDTO) error
	Summaries(tenantID int64) ([]*Summary, error)
	ContractorSheet(tenantID, contractorID int64, week time.Time) (*Sheet, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// weekParam reads the optional ?week=YYYY-MM-DD query parameter,
// defaulting to the current week.
func weekParam(r *http.Request) (time.Time, error) {
	weekStr := r.URL.Query().Get("week")
	if weekStr == "" {
		return time.Now(), nil
	}
	return timeutil.ParseDateKey(weekStr)
}

func (h *Handler) GetWeekSheet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetWeekSheet: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	week, err := weekParam(r)
	if err != nil {
		h.Logger.Error("GetWeekSheet: invalid week parameter", "error", err)
		h.WriteError(w, http.StatusBadRequest, "week must be in YYYY-MM-DD format")
		return
	}

	sheet, err := h.Service.WeekSheet(user.TenantID, user.ID, week, nil)
	if err != nil {
		h.Logger.Error("GetWeekSheet: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sheet)
}

func (h *Handler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("UpsertEntry: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpsertEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpsertEntry: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.UpsertEntry(user.TenantID, Actor{ID: user.ID, Name: user.Name}, dto)
	if err != nil {
		h.Logger.Error("UpsertEntry: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("DeleteEntry: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entryIDStr := chi.URLParam(r, "id")
	entryID, err := strconv.ParseInt(entryIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("DeleteEntry: invalid entry ID", "id", entryIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid entry ID")
		return
	}

	if err := h.Service.DeleteEntry(user.TenantID, user.ID, entryID); err != nil {
		h.Logger.Error("DeleteEntry: service error", "error", err, "entry_id", entryID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SubmitWeek(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("SubmitWeek: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitWeekDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitWeek: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.SubmitWeek(user.TenantID, Actor{ID: user.ID, Name: user.Name}, dto)
	if err != nil {
		h.Logger.Error("SubmitWeek: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	if !result.Submitted {
		h.WriteJSON(w, http.StatusConflict, result)
		return
	}

	h.Logger.Info("SubmitWeek: week submitted", "user_id", user.ID, "entry_count", len(dto.EntryIDs))
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetSummaries: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summaries, err := h.Service.Summaries(user.TenantID)
	if err != nil {
		h.Logger.Error("GetSummaries: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"timesheets": summaries,
	})
}

func (h *Handler) GetContractorSheet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetContractorSheet: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	contractorIDStr := chi.URLParam(r, "contractorID")
	contractorID, err := strconv.ParseInt(contractorIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetContractorSheet: invalid contractor ID", "id", contractorIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid contractor ID")
		return
	}

	week, err := weekParam(r)
	if err != nil {
		h.Logger.Error("GetContractorSheet: invalid week parameter", "error", err)
		h.WriteError(w, http.StatusBadRequest, "week must be in YYYY-MM-DD format")
		return
	}

	sheet, err := h.Service.ContractorSheet(user.TenantID, contractorID, week)
	if err != nil {
		h.Logger.Error("GetContractorSheet: service error", "error", err, "contractor_id", contractorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sheet)
}

func (h *Handler) ApproveWeek(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ApproveWeek: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ApproveWeekDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ApproveWeek: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ApproveWeek(user.TenantID, Actor{ID: user.ID, Name: user.Name}, dto); err != nil {
		h.Logger.Error("ApproveWeek: service error", "error", err, "manager_id", user.ID)
		h.handleReviewError(w, err, "approved")
		return
	}

	h.Logger.Info("ApproveWeek: week approved", "manager_id", user.ID, "entry_count", len(dto.EntryIDs))
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *Handler) RejectWeek(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("RejectWeek: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RejectWeekDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RejectWeek: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RejectWeek(user.TenantID, Actor{ID: user.ID, Name: user.Name}, dto); err != nil {
		h.Logger.Error("RejectWeek: service error", "error", err, "manager_id", user.ID)
		h.handleReviewError(w, err, "rejected")
		return
	}

	h.Logger.Info("RejectWeek: week rejected", "manager_id", user.ID, "entry_count", len(dto.EntryIDs))
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *Handler) RevertWeek(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("RevertWeek: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RevertWeekDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RevertWeek: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RevertWeek(user.TenantID, Actor{ID: user.ID, Name: user.Name}, dto); err != nil {
		h.Logger.Error("RevertWeek: service error", "error", err, "manager_id", user.ID)
		h.handleReviewError(w, err, "reverted")
		return
	}

	h.Logger.Info("RevertWeek: week reverted", "manager_id", user.ID, "entry_count", len(dto.EntryIDs))
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("UpdateComment: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateComment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateComment(user.TenantID, Actor{ID: user.ID, Name: user.Name}, dto); err != nil {
		h.Logger.Error("UpdateComment: service error", "error", err, "manager_id", user.ID)
		h.handleReviewError(w, err, "commented")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handleReviewError(w http.ResponseWriter, err error, action string) {
	switch err {
	case internal.ErrEntryNotFound:
		h.WriteError(w, http.StatusNotFound, "one or more entries not found")
	case internal.ErrInvalidEntryStatus:
		h.WriteError(w, http.StatusBadRequest, "entries cannot be "+action+" in their current status")
	case internal.ErrTenantMismatch:
		h.WriteError(w, http.StatusForbidden, "entries belong to another organization")
	case internal.ErrUnauthorizedAccess:
		h.WriteError(w, http.StatusForbidden, "manager access required")
	default:
		h.HandleServiceError(w, err)
	}
}
