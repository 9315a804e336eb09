// Package swaggerkit serves the OpenAPI document and the swagger UI
package swaggerkit

import (
	"net/http"

	"eventscope/internal/platform/logger"
	phttp "eventscope/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options configures Mount
type Options struct {
	Enabled     bool
	BasePath    string // defaults to /api/v1
	TitleSuffix string // appended to info.title, e.g. "(staging)"
}

// Mount serves /api/docs and /api/docs/doc.json
func Mount(r phttp.Router, opt Options) {
	if !opt.Enabled {
		return
	}
	if opt.BasePath == "" {
		opt.BasePath = "/api/v1"
	}

	spec, err := buildDoc(docReader(), opt.BasePath, opt.TitleSuffix)
	if err != nil {
		logger.Named("swagger").Error().Err(err).Msg("openapi document does not parse; docs disabled")
		return
	}

	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		phttp.JSON(w, http.StatusOK, spec)
	})
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
