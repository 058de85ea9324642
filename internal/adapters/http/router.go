package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/retailforge/branch-inventory-service/internal/application"
)

type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1/branches/{branch_id}", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", handler.listArticles)
			r.Post("/", handler.createArticle)
			r.Get("/{article_id}", handler.getArticle)
			r.Delete("/{article_id}", handler.deleteArticle)
			r.Post("/{article_id}/stock", handler.adjustStock)
		})
		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/", handler.listDeliveries)
			r.Get("/{order_number}", handler.getDelivery)
		})
		r.Route("/reorders", func(r chi.Router) {
			r.Get("/", handler.listReorders)
			r.Get("/{reorder_id}", handler.getReorder)
			r.Post("/{reorder_id}/status", handler.changeReorderStatus)
		})
	})
	return r
}
