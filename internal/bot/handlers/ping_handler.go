package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/edgard/nexabot/internal/command"
)

func newPingCommand(deps HandlerDeps) command.RunFunc {
	return pingHandler{deps}.Run
}

// pingHandler echoes a user id with the latency since the message was sent.
type pingHandler struct {
	deps HandlerDeps
}

func (h pingHandler) Run(ctx context.Context, req *command.Request) error {
	userID := strconv.FormatInt(req.UserID, 10)
	if len(req.Args) > 0 {
		userID = req.Args[0]
	}

	latency := time.Since(req.SentAt).Milliseconds()
	h.deps.Logger.DebugContext(ctx, "Handling ping command", "chat_id", req.ChatID, "target", userID, "latency_ms", latency)
	return req.ReplyTo(ctx, fmt.Sprintf("Pong! User ID: %s\nLatency: %dms", userID, latency))
}
