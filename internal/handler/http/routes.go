package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	versionPath = "/api/version/"
	pushPath    = "/api/records/push"
	pullPath    = "/api/records/pull"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	router.Get(versionPath, h.getServerVersion)

	router.Group(func(r chi.Router) {
		r.With(h.withContentHash).Post(pushPath, h.pushRecords)
		r.Get(pullPath, h.pullRecords)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
