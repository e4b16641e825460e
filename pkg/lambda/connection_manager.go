package lambda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"functions-sample-api/internal/config"
	"functions-sample-api/internal/host"
	"functions-sample-api/pkg/server"
)

// idleTimeout is how long a warm container counts as healthy without an invocation
const idleTimeout = 5 * time.Minute

// ConnectionManager keeps the dependency container alive across warm invocations.
// After Cleanup the next GetContainer builds a fresh container.
type ConnectionManager struct {
	container   *server.Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	config      *config.Config
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = &ConnectionManager{}
	})
	return globalConnectionManager
}

// Initialize builds the container unless one is already live. A nil cfg is
// loaded from the environment. A failed attempt is retried on the next call.
func (cm *ConnectionManager) Initialize(cfg *config.Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.initialized {
		return nil
	}

	if cfg == nil {
		cfg = cm.config
	}
	if cfg == nil {
		loaded, err := config.GetOptimizedConfig()
		if err != nil {
			return err
		}
		cfg = loaded
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	cm.config = cfg
	cm.container = container
	cm.lastUsed = time.Now()
	cm.initialized = true

	logrus.WithFields(logrus.Fields{
		"mode":   config.GetDeploymentMode(),
		"routes": container.Registry.Len(),
	}).Info("Function container initialized")

	return nil
}

// GetContainer returns the container, initializing it if necessary
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := cm.Initialize(nil); err != nil {
		return nil, err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil, fmt.Errorf("container was cleaned up during initialization")
	}
	cm.lastUsed = time.Now()
	return cm.container, nil
}

// Dispatcher returns the dispatcher of the managed container
func (cm *ConnectionManager) Dispatcher(ctx context.Context) (*host.Dispatcher, error) {
	container, err := cm.GetContainer(ctx)
	if err != nil {
		return nil, err
	}
	return container.Dispatcher, nil
}

// IsHealthy reports whether a container is live and was used recently
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}

	return time.Since(cm.lastUsed) < idleTimeout
}

// Cleanup closes the container. The configuration is kept for the next build.
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	return nil
}
