package response

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"functions-sample-api/pkg/function"
)

const (
	// ContentTypeHeader is the canonical Content-Type header name
	ContentTypeHeader = "Content-Type"

	// ContentTypeJSON is used for structured bodies
	ContentTypeJSON = "application/json"

	// ContentTypeText is used for plain string bodies when a host applies defaults
	ContentTypeText = "text/plain; charset=utf-8"
)

// internalErrorBody is the generic body returned when a response cannot be built
var internalErrorBody = []byte(`{"error": "internal error"}`)

// New builds a response from a status, optional headers and a body value.
// Strings and byte slices are used verbatim; any other value is JSON-encoded and
// Content-Type defaults to application/json unless the caller set one.
// New never panics: an invalid status or an unencodable body yields InternalError.
func New(status int, headers map[string]string, body interface{}) *function.Response {
	if status < 100 || status > 599 {
		logrus.WithField("status_code", status).Error("Invalid response status")
		return InternalError()
	}

	resp := &function.Response{
		StatusCode: status,
		Headers:    copyHeaders(headers),
	}

	payload, structured, err := Encode(body)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"status_code": status,
			"error":       err.Error(),
		}).Error("Response serialization failed")
		return InternalError()
	}
	resp.Body = payload

	if structured && !resp.HasHeader(ContentTypeHeader) {
		if resp.Headers == nil {
			resp.Headers = make(map[string]string, 1)
		}
		resp.Headers[ContentTypeHeader] = ContentTypeJSON
	}

	return resp
}

// Text builds a plain string response with no explicit headers
func Text(status int, body string) *function.Response {
	return New(status, nil, body)
}

// JSON builds a JSON response from a structured value
func JSON(status int, value interface{}) *function.Response {
	return New(status, map[string]string{ContentTypeHeader: ContentTypeJSON}, jsonValue{value})
}

// Error builds a JSON error response of the form {"error": message}
func Error(status int, message string) *function.Response {
	return JSON(status, ErrorBody{Error: message})
}

// InternalError returns the generic 500 response
func InternalError() *function.Response {
	body := make([]byte, len(internalErrorBody))
	copy(body, internalErrorBody)

	return &function.Response{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{ContentTypeHeader: ContentTypeJSON},
		Body:       body,
	}
}

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error string `json:"error"`
}

// Encode converts a body value into bytes. The boolean result reports whether the
// value was structured (and therefore JSON-encoded).
func Encode(body interface{}) ([]byte, bool, error) {
	switch v := body.(type) {
	case nil:
		return nil, false, nil
	case string:
		return []byte(v), false, nil
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out, false, nil
	case jsonValue:
		return marshal(v.value)
	default:
		return marshal(v)
	}
}

// jsonValue forces JSON encoding even for string values
type jsonValue struct {
	value interface{}
}

func marshal(value interface{}) (payload []byte, structured bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload, structured, err = nil, true, &SerializationError{Panic: r}
		}
	}()

	payload, err = json.Marshal(value)
	if err != nil {
		return nil, true, &SerializationError{Err: err}
	}
	return payload, true, nil
}

func copyHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}
