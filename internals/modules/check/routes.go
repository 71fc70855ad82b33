package check

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.RunChecks)

	return r
}

/*
- POST: /checks -> probe a batch of urls now
	body : RunChecksRequest
	resp : Report
*/
