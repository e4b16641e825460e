package handlers

import (
	"context"
	"net/http"
	"time"

	"functions-sample-api/internal/response"
	"functions-sample-api/pkg/function"
)

// StatusMessage is the fixed message of the status endpoint
const StatusMessage = "Azure Functions Sample is running"

// TimestampLayout is ISO-8601 in UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// StatusPayload is the JSON body of the status endpoint. Field order is part of
// the wire format.
type StatusPayload struct {
	Message        string   `json:"message"`
	Timestamp      string   `json:"timestamp"`
	RuntimeVersion string   `json:"runtimeVersion"`
	Endpoints      []string `json:"endpoints"`
}

// StatusHandler reports that the app is running
type StatusHandler struct {
	runtimeVersion string
	endpoints      []string
	now            func() time.Time
}

// NewStatusHandler creates a status handler. now defaults to time.Now.
func NewStatusHandler(runtimeVersion string, endpoints []string, now func() time.Time) *StatusHandler {
	if now == nil {
		now = time.Now
	}
	return &StatusHandler{
		runtimeVersion: runtimeVersion,
		endpoints:      endpoints,
		now:            now,
	}
}

// Handle returns the status payload
// @Summary Status
// @Description Returns system status information
// @Tags functions
// @Produce json
// @Success 200 {object} StatusPayload
// @Failure 500 {object} response.ErrorBody
// @Router /status [get]
func (h *StatusHandler) Handle(ctx context.Context, inv *function.Invocation, req *function.Request) (*function.Response, error) {
	inv.Log("Status endpoint called")

	endpoints := make([]string, len(h.endpoints))
	copy(endpoints, h.endpoints)

	payload := StatusPayload{
		Message:        StatusMessage,
		Timestamp:      h.now().UTC().Format(TimestampLayout),
		RuntimeVersion: h.runtimeVersion,
		Endpoints:      endpoints,
	}

	return response.New(http.StatusOK, map[string]string{
		response.ContentTypeHeader: response.ContentTypeJSON,
	}, payload), nil
}
