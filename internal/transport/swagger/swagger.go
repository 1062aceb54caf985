package swagger

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// LoadSpec parses and validates the OpenAPI document. Called at startup so a
// malformed contract fails the boot instead of surfacing as a broken docs
// page later.
func LoadSpec(ctx context.Context, specPath string) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}

	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec %s: %w", specPath, err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi spec %s: %w", specPath, err)
	}

	return doc, nil
}

// Handler serves the raw spec document and a swagger UI pointed at it.
func Handler(specPath string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/docs/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, filepath.Clean(specPath))
	})

	mux.Handle("/docs/", httpSwagger.Handler(
		httpSwagger.URL("/docs/openapi.yml"),
	))

	return mux
}
