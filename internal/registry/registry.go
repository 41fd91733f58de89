// Package registry provides a global registry for speech backend factories.
// Backends register themselves in init() functions, allowing the CLI to
// discover and select them by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Backend voices single letters. Implementations must be safe to call from
// one goroutine at a time; the engine's speech worker is the only caller.
type Backend interface {
	// ID returns a unique identifier used on the command line (e.g., "espeak").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Available reports whether the backend can run on this machine.
	Available() bool

	// Speak renders one letter. It may block until the sound is done.
	Speak(letter string) error
}

// BackendInfo contains metadata about a registered backend.
type BackendInfo struct {
	ID        string
	Title     string
	Available bool
}

// Factory is a function that creates a new instance of a backend.
type Factory func() Backend

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a backend factory to the registry.
// Typically called from a backend's init() function.
// Panics if a backend with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: backend %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	titles[id] = f().Title()
}

// List returns information about all registered backends, sorted by ID.
// Availability is probed on each call.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(factories))
	for id, f := range factories {
		result = append(result, BackendInfo{
			ID:        id,
			Title:     titles[id],
			Available: f().Available(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new backend by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown speech backend %q", id)
	}

	return f(), nil
}

// Exists checks if a backend with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
