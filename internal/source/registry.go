package source

import (
	"log/slog"
	"sort"
	"sync"
)

// Factory constructs a source from credentials. It returns ok=false when the
// required credentials are absent; the registry then skips the source
// silently per the configuration-absence contract.
type Factory func(creds Credentials, logger *slog.Logger) (Source, bool)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a source factory to the registry.
// Called by adapter implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// List returns all registered source names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks whether a source name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Build constructs every registered source whose credentials are configured,
// in sorted name order so the set is stable across runs.
func Build(creds Credentials, logger *slog.Logger) []Source {
	var sources []Source
	for _, name := range List() {
		registryMu.RLock()
		factory := registry[name]
		registryMu.RUnlock()

		src, ok := factory(creds, logger)
		if !ok {
			logger.Debug("source not configured, skipping", "source", name)
			continue
		}
		sources = append(sources, src)
	}
	return sources
}

// Configured reports, per registered source, whether its credentials are
// present. Used by the sources command.
func Configured(creds Credentials, logger *slog.Logger) map[string]bool {
	out := make(map[string]bool)
	for _, name := range List() {
		registryMu.RLock()
		factory := registry[name]
		registryMu.RUnlock()

		_, ok := factory(creds, logger)
		out[name] = ok
	}
	return out
}
