package datasource

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/driftsql/driftsql/pkg/apperrors"
)

// ProviderInfo describes a registered provider. The parameter prefix lives
// here, keyed by an explicit provider id — never inferred from a runtime
// type's name.
type ProviderInfo struct {
	ID          string // "postgres", "sqlserver"
	DisplayName string
	ParamPrefix string // provider-native parameter-name prefix, e.g. "@"
}

// Registration contains provider info plus the adapter's connect function.
type Registration struct {
	Info    ProviderInfo
	Connect func(ctx context.Context, config map[string]any, logger *zap.Logger) (Connection, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.ID] = reg
}

// Providers returns info for all registered providers.
func Providers() []ProviderInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]ProviderInfo, 0, len(registry))
	for _, reg := range registry {
		out = append(out, reg.Info)
	}
	return out
}

// Lookup returns the registration for a provider id.
func Lookup(id string) (Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[id]
	return reg, ok
}

// ParamPrefix returns the registered parameter prefix for a provider id.
func ParamPrefix(id string) (string, bool) {
	reg, ok := Lookup(id)
	if !ok {
		return "", false
	}
	return reg.Info.ParamPrefix, true
}

// IsRegistered checks if a provider id is available.
func IsRegistered(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Connect creates a connection through the registry.
func Connect(ctx context.Context, id string, config map[string]any, logger *zap.Logger) (Connection, error) {
	reg, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s (not compiled in)", apperrors.ErrUnsupportedProvider, id)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return reg.Connect(ctx, config, logger)
}
