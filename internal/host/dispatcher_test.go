package host

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"functions-sample-api/internal/auth"
	"functions-sample-api/internal/handlers"
	"functions-sample-api/internal/response"
	"functions-sample-api/internal/routes"
	"functions-sample-api/pkg/function"
)

func newTestDispatcher(t *testing.T, prefix string) (*Dispatcher, *auth.TokenService) {
	t.Helper()

	registry, err := handlers.NewRegistry(handlers.Options{RoutePrefix: prefix, RuntimeVersion: "go-test"})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	registry.MustRegister(routes.Route{
		Name:      "keyed",
		Method:    http.MethodPost,
		Path:      "/keyed",
		AuthLevel: routes.AuthFunction,
		Handler: func(context.Context, *function.Invocation, *function.Request) (*function.Response, error) {
			return response.JSON(http.StatusAccepted, map[string]bool{"ok": true}), nil
		},
	})
	registry.MustRegister(routes.Route{
		Name:      "admin",
		Method:    http.MethodGet,
		Path:      "/admin",
		AuthLevel: routes.AuthAdmin,
		Handler: func(context.Context, *function.Invocation, *function.Request) (*function.Response, error) {
			return response.Text(http.StatusOK, "admin"), nil
		},
	})
	registry.MustRegister(routes.Route{
		Name:      "broken",
		Method:    http.MethodGet,
		Path:      "/broken",
		AuthLevel: routes.AuthAnonymous,
		Handler: func(context.Context, *function.Invocation, *function.Request) (*function.Response, error) {
			return nil, errors.New("downstream unavailable")
		},
	})

	tokens := auth.NewTokenService(&auth.TokenConfig{Secret: "secret", TokenDuration: time.Hour})
	authorizer := auth.NewAuthorizer("fn-key", "master-key", tokens)

	return NewDispatcher(registry, authorizer, prefix), tokens
}

func TestServe(t *testing.T) {
	dispatcher, tokens := newTestDispatcher(t, "/api")
	adminToken, err := tokens.GenerateToken("ops", []string{auth.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name       string
		req        *function.Request
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{
			name:       "Hello",
			req:        &function.Request{Method: http.MethodGet, Path: "/api/hello"},
			wantStatus: http.StatusOK,
			wantBody:   "Hello from Azure Functions Sample!",
			wantType:   "text/plain; charset=utf-8",
		},
		{
			name:       "StatusContentType",
			req:        &function.Request{Method: http.MethodGet, Path: "/api/status"},
			wantStatus: http.StatusOK,
			wantType:   "application/json",
		},
		{
			name:       "UnknownPath",
			req:        &function.Request{Method: http.MethodGet, Path: "/api/missing"},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"not found"}`,
			wantType:   "application/json",
		},
		{
			name:       "MissingPrefix",
			req:        &function.Request{Method: http.MethodGet, Path: "/hello"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "PrefixOnly",
			req:        &function.Request{Method: http.MethodGet, Path: "/api"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "PrefixLookalike",
			req:        &function.Request{Method: http.MethodGet, Path: "/apihello"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "WrongMethod",
			req:        &function.Request{Method: http.MethodPost, Path: "/api/hello"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "FunctionKeyMissing",
			req:        &function.Request{Method: http.MethodPost, Path: "/api/keyed"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"unauthorized"}`,
		},
		{
			name: "FunctionKeyHeader",
			req: &function.Request{Method: http.MethodPost, Path: "/api/keyed",
				Headers: map[string]string{"x-functions-key": "fn-key"}},
			wantStatus: http.StatusAccepted,
			wantBody:   `{"ok":true}`,
		},
		{
			name: "FunctionKeyQuery",
			req: &function.Request{Method: http.MethodPost, Path: "/api/keyed",
				QueryParams: map[string]string{"code": "master-key"}},
			wantStatus: http.StatusAccepted,
		},
		{
			name: "AdminWithFunctionKey",
			req: &function.Request{Method: http.MethodGet, Path: "/api/admin",
				Headers: map[string]string{"x-functions-key": "fn-key"}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "AdminWithToken",
			req: &function.Request{Method: http.MethodGet, Path: "/api/admin",
				Headers: map[string]string{"Authorization": "Bearer " + adminToken}},
			wantStatus: http.StatusOK,
			wantBody:   "admin",
		},
		{
			name:       "HandlerError",
			req:        &function.Request{Method: http.MethodGet, Path: "/api/broken"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error": "internal error"}`,
			wantType:   "application/json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := dispatcher.Serve(context.Background(), tt.req)

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantBody != "" && string(resp.Body) != tt.wantBody {
				t.Errorf("Expected body %s, got %s", tt.wantBody, resp.Body)
			}
			if tt.wantType != "" && resp.Header("Content-Type") != tt.wantType {
				t.Errorf("Expected Content-Type %s, got %s", tt.wantType, resp.Header("Content-Type"))
			}
		})
	}
}

func TestServeForbidden(t *testing.T) {
	dispatcher, tokens := newTestDispatcher(t, "/api")
	viewerToken, _ := tokens.GenerateToken("viewer", []string{"viewer"})

	resp := dispatcher.Serve(context.Background(), &function.Request{
		Method:  http.MethodGet,
		Path:    "/api/admin",
		Headers: map[string]string{"Authorization": "Bearer " + viewerToken},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.StatusCode)
	}
}

func TestServeWithoutPrefix(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t, "")

	resp := dispatcher.Serve(context.Background(), &function.Request{Method: http.MethodGet, Path: "/status"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var payload handlers.StatusPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if payload.Endpoints[0] != "GET /hello - Simple hello message" {
		t.Errorf("Unexpected endpoint: %s", payload.Endpoints[0])
	}
}

func TestServeLogsThroughInvocationLogger(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	dispatcher, _ := newTestDispatcher(t, "/api")
	dispatcher.Serve(context.Background(), &function.Request{
		Method:  http.MethodGet,
		Path:    "/api/hello",
		Headers: map[string]string{RequestIDHeader: "req-1"},
	})

	var found *logrus.Entry
	for i := range hook.AllEntries() {
		entry := hook.AllEntries()[i]
		if entry.Message == "Hello endpoint called" {
			found = entry
		}
	}
	if found == nil {
		t.Fatal("Expected 'Hello endpoint called' to be logged")
	}
	if found.Data["function"] != "hello" {
		t.Errorf("Expected function field 'hello', got %v", found.Data["function"])
	}
	if found.Data["request_id"] != "req-1" {
		t.Errorf("Expected request_id 'req-1', got %v", found.Data["request_id"])
	}
	if id, _ := found.Data["invocation_id"].(string); id == "" {
		t.Error("Expected an invocation_id field")
	}
}

func TestMatch(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t, "/api")

	route, err := dispatcher.Match(http.MethodGet, "/api/status")
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if route.Name != "status" {
		t.Errorf("Expected route 'status', got '%s'", route.Name)
	}

	_, err = dispatcher.Match(http.MethodGet, "/api/nope")
	var unmatched *UnmatchedRouteError
	if !errors.As(err, &unmatched) {
		t.Fatalf("Expected UnmatchedRouteError, got %v", err)
	}
	if unmatched.Path != "/api/nope" {
		t.Errorf("Expected path /api/nope, got %s", unmatched.Path)
	}
}

func TestNewDispatcherWithoutAuthorizer(t *testing.T) {
	registry := routes.NewRegistry()
	registry.MustRegister(routes.Route{
		Name:      "keyed",
		Method:    http.MethodGet,
		Path:      "/keyed",
		AuthLevel: routes.AuthFunction,
		Handler: func(context.Context, *function.Invocation, *function.Request) (*function.Response, error) {
			return response.Text(http.StatusOK, "keyed"), nil
		},
	})
	registry.MustRegister(routes.Route{
		Name:      "admin",
		Method:    http.MethodGet,
		Path:      "/admin",
		AuthLevel: routes.AuthAdmin,
		Handler: func(context.Context, *function.Invocation, *function.Request) (*function.Response, error) {
			return response.Text(http.StatusOK, "admin"), nil
		},
	})

	dispatcher := NewDispatcher(registry, nil, "/api")

	for _, path := range []string{"/api/keyed", "/api/admin"} {
		t.Run(path, func(t *testing.T) {
			resp := dispatcher.Serve(context.Background(), &function.Request{
				Method: http.MethodGet,
				Path:   path,
				Headers: map[string]string{
					"x-functions-key": "anything",
					"Authorization":   "Bearer not-a-token",
				},
			})
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", resp.StatusCode)
			}
		})
	}
}
