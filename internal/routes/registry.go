// Package routes holds the function route table: which handler serves a given
// HTTP method and path, and at what authorization level.
package routes

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"functions-sample-api/internal/response"
	"functions-sample-api/pkg/function"
)

// AuthLevel is the authorization a caller needs to invoke a route
type AuthLevel string

const (
	AuthAnonymous AuthLevel = "anonymous"
	AuthFunction  AuthLevel = "function"
	AuthAdmin     AuthLevel = "admin"
)

// Route binds an HTTP method and path to exactly one handler
type Route struct {
	Name        string               `json:"name" validate:"required,max=64"`
	Method      string               `json:"method" validate:"required,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS"`
	Path        string               `json:"path" validate:"required,startswith=/"`
	AuthLevel   AuthLevel            `json:"auth_level" validate:"required,oneof=anonymous function admin"`
	Description string               `json:"description,omitempty"`
	Handler     function.HandlerFunc `json:"-" validate:"required"`
}

type routeKey struct {
	method string
	path   string
}

// Registry maps (method, path) to routes. It is filled once at startup and only
// read afterwards.
type Registry struct {
	mu       sync.RWMutex
	routes   map[routeKey]Route
	order    []routeKey
	validate *validator.Validate
}

// NewRegistry creates an empty route registry
func NewRegistry() *Registry {
	return &Registry{
		routes:   make(map[routeKey]Route),
		validate: validator.New(),
	}
}

// Register adds a route. Registering an existing (method, path) returns a
// *DuplicateRouteError.
func (r *Registry) Register(route Route) error {
	if err := r.validate.Struct(route); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidRoute, route.Method, route.Path, err)
	}

	key := routeKey{method: route.Method, path: route.Path}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.routes[key]; ok {
		return &DuplicateRouteError{
			Method:   route.Method,
			Path:     route.Path,
			Existing: existing.Name,
		}
	}

	r.routes[key] = route
	r.order = append(r.order, key)

	logrus.WithFields(logrus.Fields{
		"function":   route.Name,
		"method":     route.Method,
		"path":       route.Path,
		"auth_level": route.AuthLevel,
	}).Debug("Route registered")

	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(route Route) {
	if err := r.Register(route); err != nil {
		panic(err)
	}
}

// Resolve returns the route registered for the exact method and path
func (r *Registry) Resolve(method, path string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[routeKey{method: method, path: path}]
	return route, ok
}

// Routes returns all routes in registration order
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Route, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.routes[key])
	}
	return out
}

// Len returns the number of registered routes
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Invoke runs the route handler. Handler errors, panics and nil responses are
// converted to a 500 response; Invoke always returns a usable response.
func (rt Route) Invoke(ctx context.Context, inv *function.Invocation, req *function.Request) (resp *function.Response) {
	fields := logrus.Fields{
		"function": rt.Name,
		"method":   rt.Method,
		"path":     rt.Path,
	}
	if inv != nil {
		fields["invocation_id"] = inv.ID
	}

	defer func() {
		if r := recover(); r != nil {
			fields["panic"] = fmt.Sprintf("%v", r)
			fields["stack_trace"] = string(debug.Stack())
			logrus.WithFields(fields).Error("Handler panicked")
			resp = response.InternalError()
		}
	}()

	resp, err := rt.Handler(ctx, inv, req)
	if err != nil {
		fields["error"] = err.Error()
		logrus.WithFields(fields).Error("Handler failed")
		return response.InternalError()
	}
	if resp == nil {
		logrus.WithFields(fields).Error("Handler returned no response")
		return response.InternalError()
	}
	if resp.StatusCode < 100 || resp.StatusCode > 599 {
		fields["status_code"] = resp.StatusCode
		logrus.WithFields(fields).Error("Handler returned invalid status")
		return response.InternalError()
	}

	return resp
}
