package enhance

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport"
)

type EnhancerAPI interface {
	EnhanceText(ctx context.Context, text string) string
}

type EnhanceRequest struct {
	Text string `json:"text"`
}

type EnhanceResponse struct {
	Text string `json:"text"`
}

type Handler struct {
	*transport.BaseHandler
	Enhancer EnhancerAPI
}

func NewHandler(baseHandler *transport.BaseHandler, enhancer EnhancerAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Enhancer:    enhancer,
	}
}

// EnhanceDescription handles POST /enhance. The response always carries
// usable text; on provider failure it is the input echoed back.
func (h *Handler) EnhanceDescription(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enhanced := h.Enhancer.EnhanceText(r.Context(), req.Text)

	h.WriteJSON(w, http.StatusOK, EnhanceResponse{Text: enhanced})
}
