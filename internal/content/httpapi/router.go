package httpapi

import (
	"github.com/fasthttp/router"
)

// NewRouter wires the content routes.
func NewRouter(h *Handler) *router.Router {
	r := router.New()

	r.GET("/health", h.Health)

	r.GET("/tasks", h.Query)
	r.POST("/tasks", h.Insert)
	r.GET("/tasks/{id}", h.Query)
	r.PUT("/tasks/{id}", h.Update)
	r.DELETE("/tasks/{id}", h.Delete)

	r.GET("/type/{resource:*}", h.GetType)

	return r
}
