// Package command implements prefixed text commands: descriptors, the
// name/alias registry, per-user cooldowns and the dispatcher that routes a
// message to a command or to the fallback conversation handler.
package command

import (
	"context"
	"time"
)

// Role is the minimum privilege level a command requires. Only two tiers
// exist today; higher values are treated as admin.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r >= RoleAdmin {
		return "admin"
	}
	return "user"
}

// RunFunc executes a command. A returned *UserError has its message shown to
// the user; any other error results in a generic apology.
type RunFunc func(ctx context.Context, req *Request) error

// Descriptor describes a command. It is not modified after registration.
type Descriptor struct {
	Name        string
	Aliases     []string
	MinimumRole Role
	Cooldown    time.Duration
	Description string
	// Usage may contain {pn}, expanded to prefix and command name.
	Usage     string
	Category  string
	Version   string
	UsePrefix bool
	Run       RunFunc
}
