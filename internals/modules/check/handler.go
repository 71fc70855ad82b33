package check

import (
	"context"
	"encoding/json"
	"net/http"

	"sitewatch/pkg/apperror"
	"sitewatch/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Runner is implemented by Service.
type Runner interface {
	RunBatch(ctx context.Context, batchID string, urls []string) Report
}

type Handler struct {
	runner    Runner
	validator *validator.Validate
}

func NewHandler(runner Runner, validator *validator.Validate) *Handler {
	return &Handler{
		runner:    runner,
		validator: validator,
	}
}

// POST /checks
// {
// 	"urls": ["https://example.com"]
// }
func (h *Handler) RunChecks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	// decode request body
	var req RunChecksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "request body must be json")
		return
	}

	// validate request body
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "urls must be a non-empty list")
		return
	}

	report := h.runner.RunBatch(ctx, reqID, req.URLs)

	utils.WriteJSON(w, http.StatusOK, reqID, "batch processed", report)
}
