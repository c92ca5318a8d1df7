package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swairua/kennedynespot/internal/transport/handler"
)

func NewRouter(h *handler.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/images", func(r chi.Router) {
			r.Post("/", h.UploadImages)
			r.Get("/", h.ListImages)
			r.Post("/reorder", h.ReorderImages)
			r.Post("/move", h.MoveImage)
			r.Patch("/{id}", h.UpdateImage)
			r.Delete("/{id}", h.DeleteImage)
		})

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", h.ListFolders)
			r.Post("/", h.CreateFolder)
			r.Patch("/{name}", h.RenameFolder)
			r.Delete("/{name}", h.DeleteFolder)
		})

		r.Post("/fragments", h.RenderFragment)
	})

	return r
}
