package routes

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRoute is returned when a (method, path) pair is registered twice
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrInvalidRoute is returned when a route fails validation
	ErrInvalidRoute = errors.New("invalid route")
)

// DuplicateRouteError reports a second registration for an existing (method, path)
type DuplicateRouteError struct {
	Method   string
	Path     string
	Existing string // name of the route already registered
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("%v: %s %s already registered by %q", ErrDuplicateRoute, e.Method, e.Path, e.Existing)
}

// Unwrap returns ErrDuplicateRoute
func (e *DuplicateRouteError) Unwrap() error {
	return ErrDuplicateRoute
}

// IsDuplicateRoute returns true if the error indicates a duplicate registration
func IsDuplicateRoute(err error) bool {
	return errors.Is(err, ErrDuplicateRoute)
}
