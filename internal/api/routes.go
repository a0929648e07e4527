package api

import (
	"fmt"
	"net/http"

	"github.com/veridia/clauseguard/internal/config"
	"github.com/veridia/clauseguard/pkg/openapi"
	"github.com/veridia/clauseguard/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	handler := domain.Reviews.Handler(
		domain.Dispatcher.Enqueue,
		domain.Playbook.Version(),
		cfg.Pipeline.MaxUploadSizeBytes(),
	)

	routes.Register(mux, handler.Routes())

	spec, err := buildSpec(cfg)
	if err != nil {
		return fmt.Errorf("build openapi spec: %w", err)
	}
	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
