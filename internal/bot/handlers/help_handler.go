package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/edgard/nexabot/internal/command"
)

func newHelpCommand(deps HandlerDeps, registry *command.Registry) command.RunFunc {
	return helpHandler{deps: deps, registry: registry}.Run
}

// helpHandler lists commands, or describes the one named in the first argument.
type helpHandler struct {
	deps     HandlerDeps
	registry *command.Registry
}

func (h helpHandler) Run(ctx context.Context, req *command.Request) error {
	msgs := h.deps.Config.Messages

	if len(req.Args) > 0 {
		d, ok := h.registry.Lookup(req.Args[0])
		if !ok {
			return req.Reply(ctx, fmt.Sprintf(msgs.HelpUnknown, req.Args[0]))
		}
		return req.Reply(ctx, describeCommand(d, req.Prefix))
	}

	var sb strings.Builder
	sb.WriteString(msgs.HelpHeader)
	for _, d := range h.registry.Descriptors() {
		if d.MinimumRole >= command.RoleAdmin && !req.IsAdmin {
			continue
		}
		fmt.Fprintf(&sb, "\n%s%s - %s", req.Prefix, d.Name, d.Description)
	}
	return req.Reply(ctx, sb.String())
}

func describeCommand(d *command.Descriptor, prefix string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%s - %s", prefix, d.Name, d.Description)
	if len(d.Aliases) > 0 {
		fmt.Fprintf(&sb, "\nAliases: %s", strings.Join(d.Aliases, ", "))
	}
	if d.Usage != "" {
		fmt.Fprintf(&sb, "\nUsage: %s", strings.ReplaceAll(d.Usage, "{pn}", prefix+d.Name))
	}
	if d.Cooldown > 0 {
		fmt.Fprintf(&sb, "\nCooldown: %s", d.Cooldown)
	}
	fmt.Fprintf(&sb, "\nRole: %s", d.MinimumRole)
	return sb.String()
}
