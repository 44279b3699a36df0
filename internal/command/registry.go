package command

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
)

// Registry maps lower-cased names and aliases to descriptors. It is built
// once at startup and read concurrently afterwards.
type Registry struct {
	commands map[string]*Descriptor
	log      *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		commands: make(map[string]*Descriptor),
		log:      log.With("component", "command_registry"),
	}
}

// Register adds d under its name and every alias. A key already taken by
// another command is overwritten and the collision logged.
func (r *Registry) Register(d Descriptor) error {
	name := strings.ToLower(strings.TrimSpace(d.Name))
	if name == "" {
		return errors.New("command name cannot be empty")
	}
	if d.Run == nil {
		return errors.New("command " + name + " has no run function")
	}
	d.Name = name

	desc := &d
	keys := append([]string{name}, d.Aliases...)
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if prev, ok := r.commands[key]; ok && prev.Name != name {
			r.log.Warn("Command name collision, last registration wins", "key", key, "previous", prev.Name, "command", name)
		}
		r.commands[key] = desc
	}

	r.log.Info("Loaded command", "command", name, "aliases", d.Aliases)
	return nil
}

// Lookup finds a command by name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.commands[strings.ToLower(name)]
	return d, ok
}

// Descriptors returns each reachable command once, sorted by name.
func (r *Registry) Descriptors() []*Descriptor {
	seen := make(map[*Descriptor]struct{}, len(r.commands))
	out := make([]*Descriptor, 0, len(r.commands))
	for _, d := range r.commands {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
