package zosmf

import (
	"context"
	"fmt"
	"sync"

	"github.com/zdevops/zdevops/pkg/logging"
)

// ProviderFunc opens a Client for a connection.
type ProviderFunc func(ctx context.Context, conn Connection, log logging.Interface) (Client, error)

// Factory picks a provider by connection scheme. Protocol clients register
// themselves from outside this package.
type Factory struct {
	mu        sync.RWMutex
	providers map[string]ProviderFunc
	logger    logging.Interface
}

// NewFactory creates an empty factory.
func NewFactory(logger logging.Interface) *Factory {
	return &Factory{providers: make(map[string]ProviderFunc), logger: logger}
}

// Register binds a provider to scheme, replacing any previous one.
func (f *Factory) Register(scheme string, provider ProviderFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providers[scheme] = provider
}

// Schemes lists the registered schemes.
func (f *Factory) Schemes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.providers))
	for s := range f.providers {
		out = append(out, s)
	}
	return out
}

// Create opens a client for conn.
func (f *Factory) Create(ctx context.Context, conn Connection) (Client, error) {
	f.mu.RLock()
	provider, ok := f.providers[conn.Scheme]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: no client registered for scheme %q", ErrConnection, conn.Scheme)
	}

	f.logger.WithField("connection", conn.String()).Debug("Opening remote service client")
	return provider(ctx, conn, f.logger)
}
