package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// helpOrder is the order commands are listed in help: views first, then
// task edits, alerts and account commands.
var helpOrder = []string{
	"list", "filter",
	"add", "create", "done", "reopen", "rm",
	"watch",
	"login", "logout",
	"help", "version",
}

// Registry holds registered commands.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command // name and aliases map to command
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds: make(map[string]Command),
	}
}

// Register adds a command under its name and aliases. Names are lower case;
// registering a taken name or alias fails.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for i, key := range keys {
		if _, exists := r.cmds[strings.ToLower(key)]; exists {
			if i == 0 {
				return fmt.Errorf("command already registered: %s", key)
			}
			return fmt.Errorf("command alias already registered: %s", key)
		}
	}
	for _, key := range keys {
		r.cmds[strings.ToLower(key)] = c
	}
	return nil
}

// Find looks up a command by name or alias, ignoring case and surrounding
// blanks so "List" typed in the shell finds list.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[strings.ToLower(strings.TrimSpace(name))]
	return cmd, ok
}

// All returns each command once, in help order. Commands missing from the
// order follow, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]Command)
	for _, cmd := range r.cmds {
		seen[cmd.Name()] = cmd
	}

	result := make([]Command, 0, len(seen))
	for _, name := range helpOrder {
		if cmd, ok := seen[name]; ok {
			result = append(result, cmd)
			delete(seen, name)
		}
	}

	rest := make([]string, 0, len(seen))
	for name := range seen {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		result = append(result, seen[name])
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
