package handlers

import (
	"fmt"
	"net/http"
	"time"

	"functions-sample-api/internal/routes"
)

// Options configures the function app routes
type Options struct {
	RoutePrefix    string
	RuntimeVersion string
	Now            func() time.Time
}

// Endpoints describes the app's routes as reported by the status endpoint
func Endpoints(prefix string) []string {
	return []string{
		fmt.Sprintf("GET %s/hello - Simple hello message", prefix),
		fmt.Sprintf("GET %s/status - System status information", prefix),
	}
}

// Register adds the app's function routes to a registry
func Register(registry *routes.Registry, opts Options) error {
	status := NewStatusHandler(opts.RuntimeVersion, Endpoints(opts.RoutePrefix), opts.Now)

	functions := []routes.Route{
		{
			Name:        "hello",
			Method:      http.MethodGet,
			Path:        "/hello",
			AuthLevel:   routes.AuthAnonymous,
			Description: "Simple hello message",
			Handler:     Hello,
		},
		{
			Name:        "status",
			Method:      http.MethodGet,
			Path:        "/status",
			AuthLevel:   routes.AuthAnonymous,
			Description: "System status information",
			Handler:     status.Handle,
		},
	}

	for _, route := range functions {
		if err := registry.Register(route); err != nil {
			return fmt.Errorf("failed to register %s: %w", route.Name, err)
		}
	}

	return nil
}

// NewRegistry creates a registry holding the app's function routes
func NewRegistry(opts Options) (*routes.Registry, error) {
	registry := routes.NewRegistry()
	if err := Register(registry, opts); err != nil {
		return nil, err
	}
	return registry, nil
}
