package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/edgard/nexabot/internal/config"
	"github.com/edgard/nexabot/internal/logger"
)

// NativePrefix is Telegram's own command prefix, always recognised.
const NativePrefix = "/"

// Dispatcher routes inbound text to commands or to the fallback handler.
type Dispatcher struct {
	registry  *Registry
	cooldowns *Cooldowns
	prefixes  []string
	messages  config.MessagesConfig
	fallback  RunFunc
	log       *slog.Logger
}

// NewDispatcher creates a dispatcher recognising prefix and NativePrefix.
// Text that is not a command is passed to fallback, which may be nil.
func NewDispatcher(registry *Registry, cooldowns *Cooldowns, prefix string, messages config.MessagesConfig, fallback RunFunc, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	prefixes := []string{NativePrefix}
	if prefix != "" && prefix != NativePrefix {
		prefixes = append([]string{prefix}, prefixes...)
	}
	return &Dispatcher{
		registry:  registry,
		cooldowns: cooldowns,
		prefixes:  prefixes,
		messages:  messages,
		fallback:  fallback,
		log:       log.With("component", "dispatcher"),
	}
}

// Prefixes returns the recognised command prefixes, configured one first.
func (d *Dispatcher) Prefixes() []string {
	return append([]string(nil), d.prefixes...)
}

func (d *Dispatcher) matchPrefix(text string) (string, bool) {
	for _, p := range d.prefixes {
		if strings.HasPrefix(text, p) {
			return p, true
		}
	}
	return "", false
}

// Dispatch handles req. It never returns an error: failures are logged and
// answered with a user-facing message.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) {
	text := strings.TrimSpace(req.Text)

	prefix, ok := d.matchPrefix(text)
	if !ok {
		if d.fallback != nil {
			d.invoke(ctx, req, d.fallback)
		}
		return
	}

	fields := strings.Fields(text[len(prefix):])
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	desc, ok := d.registry.Lookup(name)
	if !ok {
		d.log.DebugContext(ctx, "Ignoring unknown command", "command", name, "chat_id", req.ChatID)
		return
	}
	if desc.UsePrefix && !strings.HasPrefix(req.Text, prefix) {
		return
	}

	req.Prefix = prefix
	req.Command = name
	req.Args = fields[1:]

	if desc.MinimumRole >= RoleAdmin && !req.IsAdmin {
		d.log.WarnContext(ctx, "Unauthorized command attempt", append(req.LogAttrs(), "command", desc.Name)...)
		d.reply(ctx, req, d.messages.NotAuthorized)
		return
	}

	if wait, ok := d.cooldowns.Check(req.UserID, desc.Name, desc.Cooldown); !ok {
		d.log.DebugContext(ctx, "Command on cooldown", "command", desc.Name, "user_id", req.UserID, "wait", wait)
		d.reply(ctx, req, fmt.Sprintf(d.messages.Cooldown, remainingSeconds(wait), prefix+name))
		return
	}

	d.log.InfoContext(ctx, "Running command", "command", desc.Name, "user_id", req.UserID, "chat_id", req.ChatID)
	d.invoke(ctx, req, desc.Run)
}

func (d *Dispatcher) invoke(ctx context.Context, req *Request, run RunFunc) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(ctx, req, fmt.Errorf("panic: %v", r), "stack", string(debug.Stack()))
		}
	}()

	if err := run(ctx, req); err != nil {
		d.fail(ctx, req, err)
	}
}

func (d *Dispatcher) fail(ctx context.Context, req *Request, err error, extra ...any) {
	attrs := append(req.LogAttrs(), "command", req.Command, "error", err, "request_id", logger.RequestID(ctx))
	attrs = append(attrs, extra...)

	var userErr *UserError
	if errors.As(err, &userErr) {
		d.log.ErrorContext(ctx, "Command failed", attrs...)
		d.reply(ctx, req, userErr.Message)
		return
	}

	d.log.ErrorContext(ctx, "Handler failed unexpectedly", attrs...)
	d.reply(ctx, req, d.messages.CommandError)
}

func (d *Dispatcher) reply(ctx context.Context, req *Request, text string) {
	if err := req.Reply(ctx, text); err != nil {
		d.log.ErrorContext(ctx, "Failed to send reply", append(req.LogAttrs(), "error", err)...)
	}
}
