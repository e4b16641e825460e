package handlers

import (
	"context"
	"net/http"

	"functions-sample-api/internal/response"
	"functions-sample-api/pkg/function"
)

// HelloMessage is the fixed body of the hello endpoint
const HelloMessage = "Hello from Azure Functions Sample!"

// Hello returns a plain greeting
// @Summary Hello
// @Description Returns a fixed greeting
// @Tags functions
// @Produce plain
// @Success 200 {string} string "Hello from Azure Functions Sample!"
// @Router /hello [get]
func Hello(ctx context.Context, inv *function.Invocation, req *function.Request) (*function.Response, error) {
	inv.Log("Hello endpoint called")

	return response.Text(http.StatusOK, HelloMessage), nil
}
