package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/nexabot/internal/preferences"
)

// PreferenceStore is a preferences.Store persisted in sqlite. It also
// implements preferences.Maintainer.
type PreferenceStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var (
	_ preferences.Store      = (*PreferenceStore)(nil)
	_ preferences.Maintainer = (*PreferenceStore)(nil)
)

// NewPreferenceStore creates a store backed by db.
func NewPreferenceStore(db *sqlx.DB, logger *slog.Logger) *PreferenceStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PreferenceStore{
		db:     db,
		logger: logger.With("component", "preference_store"),
	}
}

// Get returns the stored preferences for chatID.
func (s *PreferenceStore) Get(ctx context.Context, chatID int64) (preferences.Preferences, bool, error) {
	if chatID == 0 {
		return preferences.Preferences{}, false, preferences.ErrInvalidChatID
	}

	var row chatPreferences
	err := s.db.GetContext(ctx, &row, `
        SELECT chat_id, language, sentiment, response_type, created_at, updated_at
        FROM chat_preferences
        WHERE chat_id = ?;
    `, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return preferences.Preferences{}, false, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load preferences", "chat_id", chatID, "error", err)
		return preferences.Preferences{}, false, fmt.Errorf("failed to load preferences for chat %d: %w", chatID, err)
	}
	return row.toDomain(), true, nil
}

// Set upserts the preferences for chatID.
func (s *PreferenceStore) Set(ctx context.Context, chatID int64, prefs preferences.Preferences) error {
	if chatID == 0 {
		return preferences.ErrInvalidChatID
	}

	now := time.Now().UTC()
	row := chatPreferences{
		ChatID:       chatID,
		Language:     prefs.Language,
		Sentiment:    prefs.Sentiment,
		ResponseType: prefs.ResponseType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.NamedExecContext(ctx, `
        INSERT INTO chat_preferences (chat_id, language, sentiment, response_type, created_at, updated_at)
        VALUES (:chat_id, :language, :sentiment, :response_type, :created_at, :updated_at)
        ON CONFLICT(chat_id) DO UPDATE SET
            language = excluded.language,
            sentiment = excluded.sentiment,
            response_type = excluded.response_type,
            updated_at = excluded.updated_at;
    `, row)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save preferences", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to save preferences for chat %d: %w", chatID, err)
	}

	s.logger.DebugContext(ctx, "Preferences saved", "chat_id", chatID, "stage", prefs.Stage().String())
	return nil
}

// Delete removes the preferences for chatID.
func (s *PreferenceStore) Delete(ctx context.Context, chatID int64) error {
	if chatID == 0 {
		return preferences.ErrInvalidChatID
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_preferences WHERE chat_id = ?;`, chatID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete preferences", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to delete preferences for chat %d: %w", chatID, err)
	}
	return nil
}

// RunMaintenance optimises and vacuums the database.
func (s *PreferenceStore) RunMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"PRAGMA optimize;", "VACUUM;"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}
	return nil
}
