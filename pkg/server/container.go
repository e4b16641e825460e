package server

import (
	"fmt"

	"functions-sample-api/internal/auth"
	"functions-sample-api/internal/config"
	"functions-sample-api/internal/handlers"
	"functions-sample-api/internal/host"
	"functions-sample-api/internal/routes"
	"functions-sample-api/internal/version"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Registry   *routes.Registry
	Tokens     *auth.TokenService
	Authorizer *auth.Authorizer
	Dispatcher *host.Dispatcher
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	registry, err := handlers.NewRegistry(handlers.Options{
		RoutePrefix:    cfg.RoutePrefix,
		RuntimeVersion: version.Runtime(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register function routes: %w", err)
	}

	tokens := auth.NewTokenService(&auth.TokenConfig{
		Secret:        cfg.Auth.JWTSecret,
		TokenDuration: cfg.Auth.TokenDuration(),
		Issuer:        cfg.Auth.JWTIssuer,
	})
	authorizer := auth.NewAuthorizer(cfg.Auth.FunctionKey, cfg.Auth.MasterKey, tokens)

	return &Container{
		Config:     cfg,
		Registry:   registry,
		Tokens:     tokens,
		Authorizer: authorizer,
		Dispatcher: host.NewDispatcher(registry, authorizer, cfg.RoutePrefix),
	}, nil
}

// Close detaches the dispatcher so a closed container no longer serves. The
// container owns no external connections.
func (c *Container) Close() error {
	c.Dispatcher = nil
	return nil
}
