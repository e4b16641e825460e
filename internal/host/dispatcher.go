// Package host contains the request flow shared by every host adapter: route
// prefix handling, registry lookup, authorization and invocation setup.
package host

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"functions-sample-api/internal/auth"
	"functions-sample-api/internal/logging"
	"functions-sample-api/internal/response"
	"functions-sample-api/internal/routes"
	"functions-sample-api/pkg/function"
)

// RequestIDHeader carries the caller's or middleware-assigned request id
const RequestIDHeader = "X-Request-ID"

// UnmatchedRouteError reports a request no registered route serves
type UnmatchedRouteError struct {
	Method string
	Path   string
}

func (e *UnmatchedRouteError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

// Dispatcher serves requests from a route registry
type Dispatcher struct {
	registry   *routes.Registry
	authorizer *auth.Authorizer
	prefix     string
	logger     *logrus.Logger
}

// NewDispatcher creates a dispatcher. prefix must already be normalized ("" or
// "/segment"). A nil authorizer rejects every route above anonymous.
func NewDispatcher(registry *routes.Registry, authorizer *auth.Authorizer, prefix string) *Dispatcher {
	if authorizer == nil {
		authorizer = auth.NewAuthorizer("", "", nil)
	}
	return &Dispatcher{
		registry:   registry,
		authorizer: authorizer,
		prefix:     prefix,
		logger:     logrus.StandardLogger(),
	}
}

// Prefix returns the route prefix the dispatcher serves under
func (d *Dispatcher) Prefix() string {
	return d.prefix
}

// Match resolves a request to a route, or returns an *UnmatchedRouteError
func (d *Dispatcher) Match(method, path string) (routes.Route, error) {
	routePath, ok := d.stripPrefix(path)
	if !ok {
		return routes.Route{}, &UnmatchedRouteError{Method: method, Path: path}
	}

	route, ok := d.registry.Resolve(method, routePath)
	if !ok {
		return routes.Route{}, &UnmatchedRouteError{Method: method, Path: path}
	}
	return route, nil
}

// Serve runs the full request flow and always returns a response
func (d *Dispatcher) Serve(ctx context.Context, req *function.Request) *function.Response {
	requestID := req.Header(RequestIDHeader)

	route, err := d.Match(req.Method, req.Path)
	if err != nil {
		d.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     req.Method,
			"path":       req.Path,
		}).Debug(err.Error())
		return finalize(response.Error(http.StatusNotFound, "not found"))
	}

	if err := d.authorizer.Authorize(route.AuthLevel, auth.CredentialsFromRequest(req)); err != nil {
		d.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"function":   route.Name,
			"auth_level": route.AuthLevel,
			"error":      err.Error(),
		}).Warn("Invocation rejected")

		if errors.Is(err, auth.ErrForbidden) {
			return finalize(response.Error(http.StatusForbidden, "forbidden"))
		}
		return finalize(response.Error(http.StatusUnauthorized, "unauthorized"))
	}

	invocationID := uuid.New().String()
	entry := d.logger.WithFields(logrus.Fields{
		"invocation_id": invocationID,
		"function":      route.Name,
		"request_id":    requestID,
	})

	inv := &function.Invocation{
		ID:           invocationID,
		FunctionName: route.Name,
		Logger:       logging.NewInvocationLogger(entry),
	}

	resp := route.Invoke(ctx, inv, req)

	entry.WithField("status_code", resp.StatusCode).Debug("Invocation completed")

	return finalize(resp)
}

// stripPrefix maps a request path to a route path under the dispatcher prefix
func (d *Dispatcher) stripPrefix(path string) (string, bool) {
	if d.prefix == "" {
		return path, true
	}
	if !strings.HasPrefix(path, d.prefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(path, d.prefix), true
}

// finalize applies host defaults to a response on its way out
func finalize(resp *function.Response) *function.Response {
	if len(resp.Body) > 0 && !resp.HasHeader(response.ContentTypeHeader) {
		if resp.Headers == nil {
			resp.Headers = make(map[string]string, 1)
		}
		resp.Headers[response.ContentTypeHeader] = response.ContentTypeText
	}
	return resp
}
