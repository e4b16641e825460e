package function

import (
	"context"
	"strings"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
}

// Header returns the value of a request header, matching the name case-insensitively
func (r *Request) Header(name string) string {
	if r == nil {
		return ""
	}
	return lookup(r.Headers, name)
}

// Query returns the value of a query string parameter
func (r *Request) Query(name string) string {
	if r == nil || r.QueryParams == nil {
		return ""
	}
	return r.QueryParams[name]
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// Header returns the value of a response header, matching the name case-insensitively
func (r *Response) Header(name string) string {
	if r == nil {
		return ""
	}
	return lookup(r.Headers, name)
}

// HasHeader reports whether the response carries the header, in any casing
func (r *Response) HasHeader(name string) bool {
	if r == nil {
		return false
	}
	for k := range r.Headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// Logger is the logging capability a host hands to each invocation
type Logger interface {
	Log(message string)
}

// Invocation carries the per-request context supplied by the host
type Invocation struct {
	ID           string `json:"invocation_id"`
	FunctionName string `json:"function_name"`
	Logger       Logger `json:"-"`
}

// Log writes a message through the invocation logger, if one is attached
func (inv *Invocation) Log(message string) {
	if inv == nil || inv.Logger == nil {
		return
	}
	inv.Logger.Log(message)
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(ctx context.Context, inv *Invocation, req *Request) (*Response, error)

func lookup(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
