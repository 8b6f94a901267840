package command

import "sync"

// Handler executes one command. args excludes the command name; out emits
// response lines to the host. A nil return acknowledges with COMPLETED, an
// error is reported as an ERR line.
type Handler func(args []string, out func(string)) error

// Command is one registered wire command.
type Command struct {
	Name    string
	Handler Handler
}

// Registry holds all registered commands, keyed by wire name.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command. Re-registering a name replaces the handler.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = &Command{Name: name, Handler: handler}
}

// Lookup retrieves a command by wire name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Names lists all registered command names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	return names
}
