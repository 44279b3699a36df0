package database

import (
	"time"

	"github.com/edgard/nexabot/internal/preferences"
)

// chatPreferences is the row shape of the chat_preferences table.
type chatPreferences struct {
	ChatID       int64     `db:"chat_id"`
	Language     string    `db:"language"`
	Sentiment    string    `db:"sentiment"`
	ResponseType string    `db:"response_type"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r chatPreferences) toDomain() preferences.Preferences {
	return preferences.Preferences{
		Language:     r.Language,
		Sentiment:    r.Sentiment,
		ResponseType: r.ResponseType,
	}
}
