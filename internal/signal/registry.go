package signal

import (
	"fmt"
	"sync"
)

var (
	registry     = make(map[string]func() Adapter)
	registryLock sync.RWMutex
)

// Register adds an adapter factory to the registry
func Register(name string, factory func() Adapter) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[name] = factory
}

// Get retrieves an adapter by provider name from the registry
func Get(name string) (Adapter, error) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	return factory(), nil
}

// List returns all registered provider names
func List() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Exists checks if a provider is registered
func Exists(name string) bool {
	registryLock.RLock()
	defer registryLock.RUnlock()
	_, ok := registry[name]
	return ok
}
