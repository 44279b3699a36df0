package telegram

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/nexabot/internal/onboarding"
)

func TestInlineKeyboard(t *testing.T) {
	t.Parallel()

	markup := InlineKeyboard(onboarding.Menu{
		{{Label: "A", Data: "lang:a"}, {Label: "B", Data: "lang:b"}},
		{{Label: "C", Data: "lang:c"}},
	})

	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][1]; got.Text != "B" || got.CallbackData != "lang:b" {
		t.Errorf("button[0][1] = %+v", got)
	}
	if got := markup.InlineKeyboard[1][0]; got.Text != "C" || got.CallbackData != "lang:c" {
		t.Errorf("button[1][0] = %+v", got)
	}
}

func TestDetachKeepsContextAlive(t *testing.T) {
	t.Parallel()

	var sawCancel, hasDeadline bool
	h := Detach(time.Second)(func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		sawCancel = ctx.Err() != nil
		_, hasDeadline = ctx.Deadline()
	})

	parent, cancel := context.WithCancel(context.Background())
	cancel()
	h(parent, nil, &models.Update{})

	if sawCancel {
		t.Error("handler context was cancelled together with the polling context")
	}
	if !hasDeadline {
		t.Error("handler context has no request timeout")
	}
}

// updateServer serves one message update on the first getUpdates call and
// then long-polls until the request is abandoned.
func updateServer(t *testing.T) *httptest.Server {
	t.Helper()

	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasSuffix(r.URL.Path, "/getUpdates") {
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
			return
		}
		if polls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"hi"}}]}`))
			return
		}
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStartWaitsForRunningHandlers(t *testing.T) {
	t.Parallel()

	srv := updateServer(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	b, err := NewTelegramBot("123456789:test", 2, slog.New(slog.DiscardHandler),
		bot.WithServerURL(srv.URL),
		bot.WithSkipGetMe(),
		bot.WithMiddlewares(Detach(5*time.Second)),
		bot.WithDefaultHandler(func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
			close(started)
			<-release
			if ctx.Err() == nil {
				finished.Store(true)
			}
		}),
	)
	if err != nil {
		t.Fatalf("NewTelegramBot() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		b.Start(ctx)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("update was not dispatched")
	}
	cancel()

	select {
	case <-stopped:
		t.Fatal("Start() returned while a handler was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after the handler finished")
	}
	if !finished.Load() {
		t.Error("handler did not complete on a live context")
	}
}

func TestClientCallsBotAPI(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := map[string]map[string]string{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			_ = r.ParseForm()
		}
		fields := map[string]string{}
		for k, v := range r.Form {
			fields[k] = v[0]
		}
		mu.Lock()
		calls[method] = fields
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "deleteMessage", "answerCallbackQuery":
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
		}
	}))
	defer srv.Close()

	b, err := bot.New("123456789:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("bot.New() error = %v", err)
	}
	c := NewClient(b)
	ctx := context.Background()

	if err := c.SendMenu(ctx, 42, "pick", onboarding.Menu{{{Label: "English", Data: "lang:en"}}}); err != nil {
		t.Fatalf("SendMenu() error = %v", err)
	}
	if err := c.DeleteMessage(ctx, 42, 7); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}
	if err := c.AnswerCallback(ctx, "cb-1"); err != nil {
		t.Fatalf("AnswerCallback() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	send := calls["sendMessage"]
	if send["chat_id"] != "42" || send["text"] != "pick" {
		t.Errorf("sendMessage fields = %v", send)
	}
	var markup models.InlineKeyboardMarkup
	if err := json.Unmarshal([]byte(send["reply_markup"]), &markup); err != nil {
		t.Fatalf("reply_markup is not JSON: %v (%q)", err, send["reply_markup"])
	}
	if markup.InlineKeyboard[0][0].CallbackData != "lang:en" {
		t.Errorf("reply_markup = %+v", markup)
	}
	if del := calls["deleteMessage"]; del["message_id"] != "7" {
		t.Errorf("deleteMessage fields = %v", del)
	}
	if ans := calls["answerCallbackQuery"]; ans["callback_query_id"] != "cb-1" {
		t.Errorf("answerCallbackQuery fields = %v", ans)
	}
}
