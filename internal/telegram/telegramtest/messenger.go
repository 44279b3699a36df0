// Package telegramtest provides a recording telegram.Messenger for tests.
package telegramtest

import (
	"context"
	"sync"

	"github.com/edgard/nexabot/internal/onboarding"
	"github.com/edgard/nexabot/internal/telegram"
)

// Kind identifies the Messenger method that produced a Call.
type Kind string

const (
	KindText   Kind = "text"
	KindReply  Kind = "reply"
	KindPhoto  Kind = "photo"
	KindMenu   Kind = "menu"
	KindDelete Kind = "delete"
	KindAnswer Kind = "answer"
)

// Call is a single recorded Messenger invocation.
type Call struct {
	Kind       Kind
	ChatID     int64
	ReplyTo    int
	MessageID  int
	Text       string
	URL        string
	Menu       onboarding.Menu
	CallbackID string
}

// Messenger records every call. Set DeleteErr to make DeleteMessage fail.
type Messenger struct {
	DeleteErr error

	mu    sync.Mutex
	calls []Call
}

var _ telegram.Messenger = (*Messenger)(nil)

func (m *Messenger) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *Messenger) SendText(_ context.Context, chatID int64, text string) error {
	m.record(Call{Kind: KindText, ChatID: chatID, Text: text})
	return nil
}

func (m *Messenger) ReplyText(_ context.Context, chatID int64, replyTo int, text string) error {
	m.record(Call{Kind: KindReply, ChatID: chatID, ReplyTo: replyTo, Text: text})
	return nil
}

func (m *Messenger) SendPhoto(_ context.Context, chatID int64, url string) error {
	m.record(Call{Kind: KindPhoto, ChatID: chatID, URL: url})
	return nil
}

func (m *Messenger) SendMenu(_ context.Context, chatID int64, text string, menu onboarding.Menu) error {
	m.record(Call{Kind: KindMenu, ChatID: chatID, Text: text, Menu: menu})
	return nil
}

func (m *Messenger) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	m.record(Call{Kind: KindDelete, ChatID: chatID, MessageID: messageID})
	return m.DeleteErr
}

func (m *Messenger) AnswerCallback(_ context.Context, callbackID string) error {
	m.record(Call{Kind: KindAnswer, CallbackID: callbackID})
	return nil
}

// Calls returns a copy of the recorded calls.
func (m *Messenger) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Texts returns the text of every text, reply and menu call in order.
func (m *Messenger) Texts() []string {
	var out []string
	for _, c := range m.Calls() {
		switch c.Kind {
		case KindText, KindReply, KindMenu:
			out = append(out, c.Text)
		}
	}
	return out
}

// Count returns how many calls of kind were recorded.
func (m *Messenger) Count(kind Kind) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
