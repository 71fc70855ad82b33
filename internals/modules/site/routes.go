package site

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetSite)

	return r
}

/*
- GET: /sites?url={url} -> last stored state of a site
	body : nil
	resp : Snapshot
*/
