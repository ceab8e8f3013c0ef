package commands

import "fmt"

// Registry maps command names and aliases to commands.
type Registry struct {
	byName map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Add registers a command under its name and all of its aliases.
// Returns an error on a duplicate name or alias.
func (r *Registry) Add(c Command) error {
	for _, name := range append([]string{c.Name()}, c.Aliases()...) {
		if _, dup := r.byName[name]; dup {
			return fmt.Errorf("command already registered: %s", name)
		}
		r.byName[name] = c
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// DefaultRegistry holds the commands registered at init time.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry. Called from each
// command's init; a duplicate name is a programming error.
func Register(c Command) {
	if err := DefaultRegistry.Add(c); err != nil {
		panic(err)
	}
}
