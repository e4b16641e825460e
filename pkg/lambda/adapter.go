// Package lambda adapts API Gateway events to the function dispatcher.
package lambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"functions-sample-api/internal/host"
	"functions-sample-api/internal/response"
	"functions-sample-api/pkg/function"
)

// ProxyHandler handles API Gateway REST (payload 1.0) events
type ProxyHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// HTTPHandler handles API Gateway HTTP API (payload 2.0) events
type HTTPHandler func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// NewProxyHandler serves REST API events through the dispatcher
func NewProxyHandler(d *host.Dispatcher) ProxyHandler {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := RequestFromProxy(event)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"request_id": event.RequestContext.RequestID,
				"error":      err.Error(),
			}).Warn("Failed to decode event body")
			return toProxyResponse(response.Error(http.StatusBadRequest, "invalid request body")), nil
		}
		return toProxyResponse(d.Serve(ctx, req)), nil
	}
}

// NewHTTPHandler serves HTTP API events through the dispatcher
func NewHTTPHandler(d *host.Dispatcher) HTTPHandler {
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		req, err := RequestFromHTTP(event)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"request_id": event.RequestContext.RequestID,
				"error":      err.Error(),
			}).Warn("Failed to decode event body")
			return toHTTPResponse(response.Error(http.StatusBadRequest, "invalid request body")), nil
		}
		return toHTTPResponse(d.Serve(ctx, req)), nil
	}
}

// RequestFromProxy converts a REST API event to a function request
func RequestFromProxy(event events.APIGatewayProxyRequest) (*function.Request, error) {
	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	headers := copyMap(event.Headers)
	for key, values := range event.MultiValueHeaders {
		if _, ok := headers[key]; !ok && len(values) > 0 {
			headers[key] = values[0]
		}
	}
	setRequestID(headers, event.RequestContext.RequestID)

	return &function.Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     headers,
		QueryParams: copyMap(event.QueryStringParameters),
		PathParams:  copyMap(event.PathParameters),
		Body:        body,
	}, nil
}

// RequestFromHTTP converts an HTTP API event to a function request
func RequestFromHTTP(event events.APIGatewayV2HTTPRequest) (*function.Request, error) {
	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}

	headers := copyMap(event.Headers)
	setRequestID(headers, event.RequestContext.RequestID)

	return &function.Request{
		Method:      event.RequestContext.HTTP.Method,
		Path:        path,
		Headers:     headers,
		QueryParams: copyMap(event.QueryStringParameters),
		PathParams:  copyMap(event.PathParameters),
		Body:        body,
	}, nil
}

func toProxyResponse(resp *function.Response) events.APIGatewayProxyResponse {
	body, encoded := encodeBody(resp.Body)
	return events.APIGatewayProxyResponse{
		StatusCode:      resp.StatusCode,
		Headers:         copyMap(resp.Headers),
		Body:            body,
		IsBase64Encoded: encoded,
	}
}

func toHTTPResponse(resp *function.Response) events.APIGatewayV2HTTPResponse {
	body, encoded := encodeBody(resp.Body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode:      resp.StatusCode,
		Headers:         copyMap(resp.Headers),
		Body:            body,
		IsBase64Encoded: encoded,
	}
}

func decodeBody(body string, isBase64 bool) ([]byte, error) {
	if !isBase64 {
		return []byte(body), nil
	}
	return base64.StdEncoding.DecodeString(body)
}

// encodeBody returns binary bodies base64 encoded, as API Gateway expects
func encodeBody(body []byte) (string, bool) {
	if utf8.Valid(body) {
		return string(body), false
	}
	return base64.StdEncoding.EncodeToString(body), true
}

func setRequestID(headers map[string]string, requestID string) {
	if requestID == "" {
		return
	}
	for key := range headers {
		if strings.EqualFold(key, host.RequestIDHeader) {
			return
		}
	}
	headers[host.RequestIDHeader] = requestID
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
