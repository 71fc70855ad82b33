package site

import (
	"net/http"

	"sitewatch/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// GET /sites?url={url}
func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	snap, err := h.service.GetSite(ctx, r.URL.Query().Get("url"))
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "site retrieved", snap)
}
