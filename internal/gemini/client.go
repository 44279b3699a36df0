// Package gemini implements a conversation backend on Google's Gemini API.
// It is an alternative to the Nexalo responder selected with
// conversation.backend: gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/edgard/nexabot/internal/config"
	"github.com/edgard/nexabot/internal/conversation"
)

// generator is the subset of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Responder answers queries with a Gemini model.
type Responder struct {
	models      generator
	log         *slog.Logger
	modelName   string
	temperature float32
	instruction string
}

var _ conversation.Responder = (*Responder)(nil)

// NewResponder creates a Gemini-backed responder.
func NewResponder(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (*Responder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_responder")
	logger.Info("Gemini responder initialized successfully", "model", cfg.ModelName)
	return newResponder(gi.Models, cfg, logger), nil
}

func newResponder(models generator, cfg config.GeminiConfig, log *slog.Logger) *Responder {
	return &Responder{
		models:      models,
		log:         log,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		instruction: cfg.SystemInstruction,
	}
}

// Respond generates a text answer in the query's language and tone.
func (r *Responder) Respond(ctx context.Context, q conversation.Query) (*conversation.Answer, error) {
	sentiment := q.Sentiment
	if sentiment == "" {
		sentiment = defaultSentiment
	}
	temperature := r.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{
			{Text: fmt.Sprintf(personaInstruction, q.Language, sentiment) + r.instruction},
		}},
	}

	resp, err := r.models.GenerateContent(ctx, r.modelName, genai.Text(q.Question), cfg)
	if err != nil {
		r.log.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, errors.New("gemini returned an empty answer")
	}
	return &conversation.Answer{Text: text, Kind: conversation.KindText}, nil
}
