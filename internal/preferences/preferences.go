// Package preferences holds the per-chat personalisation record and the
// store abstraction used to keep it.
package preferences

import (
	"context"
	"errors"
	"sync"
)

// Sentiment values offered during onboarding. Stored sentiments are taken
// verbatim from callback payloads and are not limited to these.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Response types.
const (
	ResponseGood = "good"
	ResponseBad  = "bad"
)

// ErrInvalidChatID is returned for a zero chat id.
var ErrInvalidChatID = errors.New("chat id must be non-zero")

// Preferences is the personalisation record of a single chat.
type Preferences struct {
	Language     string
	Sentiment    string
	ResponseType string
}

// Stage is the onboarding progress derived from a preference record.
type Stage int

const (
	StageUnset Stage = iota
	StageLanguageChosen
	StageSentimentChosen
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageLanguageChosen:
		return "language_chosen"
	case StageSentimentChosen:
		return "sentiment_chosen"
	case StageComplete:
		return "complete"
	default:
		return "unset"
	}
}

// Stage reports how far onboarding has progressed for p.
func (p Preferences) Stage() Stage {
	switch {
	case p.Language == "":
		return StageUnset
	case p.Sentiment == "":
		return StageLanguageChosen
	case p.ResponseType == "":
		return StageSentimentChosen
	default:
		return StageComplete
	}
}

// HasLanguage reports whether the language gate is satisfied.
func (p Preferences) HasLanguage() bool {
	return p.Language != ""
}

// SentimentOr returns the sentiment or def when unset.
func (p Preferences) SentimentOr(def string) string {
	if p.Sentiment == "" {
		return def
	}
	return p.Sentiment
}

// ResponseTypeOr returns the response type or def when unset.
func (p Preferences) ResponseTypeOr(def string) string {
	if p.ResponseType == "" {
		return def
	}
	return p.ResponseType
}

// Store keeps preference records by chat id.
type Store interface {
	// Get returns the record for chatID. ok is false when none exists.
	Get(ctx context.Context, chatID int64) (prefs Preferences, ok bool, err error)
	// Set creates or overwrites the record for chatID.
	Set(ctx context.Context, chatID int64, prefs Preferences) error
	// Delete removes the record for chatID. Deleting a missing record is not an error.
	Delete(ctx context.Context, chatID int64) error
}

// Maintainer is implemented by stores that need periodic housekeeping.
type Maintainer interface {
	RunMaintenance(ctx context.Context) error
}

// memoryStore is a process-local Store. Records vanish on restart.
type memoryStore struct {
	mu    sync.RWMutex
	prefs map[int64]Preferences
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{prefs: make(map[int64]Preferences)}
}

func (s *memoryStore) Get(_ context.Context, chatID int64) (Preferences, bool, error) {
	if chatID == 0 {
		return Preferences{}, false, ErrInvalidChatID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[chatID]
	return p, ok, nil
}

func (s *memoryStore) Set(_ context.Context, chatID int64, prefs Preferences) error {
	if chatID == 0 {
		return ErrInvalidChatID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[chatID] = prefs
	return nil
}

func (s *memoryStore) Delete(_ context.Context, chatID int64) error {
	if chatID == 0 {
		return ErrInvalidChatID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prefs, chatID)
	return nil
}
