package host

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"functions-sample-api/internal/response"
	"functions-sample-api/pkg/function"
)

// GinHandler serves every request through the dispatcher. It is meant to be
// installed as the engine's NoRoute handler so the registry is consulted per
// request.
func GinHandler(d *Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := RequestFromGin(c)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logrus.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"limit": tooLarge.Limit,
			}).Warn("Request body exceeds size limit")
			WriteGin(c, response.Error(http.StatusRequestEntityTooLarge, "request too large"))
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			}).Warn("Failed to read request body")
			WriteGin(c, response.Error(http.StatusBadRequest, "invalid request body"))
			return
		}

		WriteGin(c, d.Serve(c.Request.Context(), req))
	}
}

// RequestFromGin converts a gin request into a function request
func RequestFromGin(c *gin.Context) (*function.Request, error) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
	}

	headers := make(map[string]string, len(c.Request.Header))
	for key, values := range c.Request.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	query := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	return &function.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  params,
	}, nil
}

// WriteGin writes a function response through gin
func WriteGin(c *gin.Context, resp *function.Response) {
	contentType := ""
	for key, value := range resp.Headers {
		if strings.EqualFold(key, response.ContentTypeHeader) {
			contentType = value
			continue
		}
		c.Header(key, value)
	}

	if len(resp.Body) == 0 && contentType == "" {
		c.Status(resp.StatusCode)
		c.Writer.WriteHeaderNow()
		return
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}
