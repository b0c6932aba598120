package commands

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry maps command names and aliases to commands.
// Lookups are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command // primary names only
	byAlias map[string]Command // names and aliases
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		byAlias: make(map[string]Command),
	}
}

// Register adds a command. Every name and alias must be unused.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for _, k := range keys {
		if _, exists := r.byAlias[strings.ToLower(k)]; exists {
			return fmt.Errorf("command name already registered: %s", k)
		}
	}

	r.byName[strings.ToLower(c.Name())] = c
	for _, k := range keys {
		r.byAlias[strings.ToLower(k)] = c
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byAlias[strings.ToLower(name)]
	return cmd, ok
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.byName))
	for _, name := range slices.Sorted(maps.Keys(r.byName)) {
		result = append(result, r.byName[name])
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry and panics on a clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
