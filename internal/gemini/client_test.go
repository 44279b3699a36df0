package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/edgard/nexabot/internal/config"
	"github.com/edgard/nexabot/internal/conversation"
	"github.com/edgard/nexabot/internal/logger"
)

type fakeModels struct {
	model  string
	config *genai.GenerateContentConfig
	text   string
	err    error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.config = model, cfg
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestRespond(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{text: "  Hola!  "}
	r := newResponder(fake, config.GeminiConfig{ModelName: "gemini-test", Temperature: 0.5, SystemInstruction: "Be brief."}, logger.Discard())

	got, err := r.Respond(context.Background(), conversation.Query{Question: "hi", Language: "es"})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got.Text != "Hola!" || got.Kind != conversation.KindText {
		t.Errorf("Respond() = %+v", got)
	}
	if fake.model != "gemini-test" {
		t.Errorf("model = %q", fake.model)
	}
	instruction := fake.config.SystemInstruction.Parts[0].Text
	if !strings.Contains(instruction, `"es"`) || !strings.Contains(instruction, "neutral") || !strings.HasSuffix(instruction, "Be brief.") {
		t.Errorf("system instruction = %q", instruction)
	}
}

func TestRespondErrors(t *testing.T) {
	t.Parallel()

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		r := newResponder(&fakeModels{err: boom}, config.GeminiConfig{}, logger.Discard())
		if _, err := r.Respond(context.Background(), conversation.Query{Question: "hi"}); !errors.Is(err, boom) {
			t.Errorf("Respond() error = %v, want wrapped boom", err)
		}
	})

	t.Run("empty answer", func(t *testing.T) {
		t.Parallel()
		r := newResponder(&fakeModels{text: "   "}, config.GeminiConfig{}, logger.Discard())
		if _, err := r.Respond(context.Background(), conversation.Query{Question: "hi"}); err == nil {
			t.Error("Respond() expected error for empty answer")
		}
	})
}
