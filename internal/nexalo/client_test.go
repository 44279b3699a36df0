package nexalo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edgard/nexabot/internal/config"
	"github.com/edgard/nexabot/internal/conversation"
	"github.com/edgard/nexabot/internal/logger"
)

type recorder struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (r *recorder) all() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any(nil), r.bodies...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(config.NexaloConfig{
		APIKey:   "secret",
		ChatURL:  srv.URL + "/v1/chat",
		TrainURL: srv.URL + "/v1/train",
		Timeout:  2 * time.Second,
	}, nil, logger.Discard())
	return c, rec
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestRespond(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		query      conversation.Query
		want       *conversation.Answer
		wantAPIErr bool
		wantDetail string
	}{
		{
			name:   "text answer",
			status: http.StatusOK,
			body:   `{"status_code":200,"status":"OK","data":{"answer":"Hi there","response_type":"text"}}`,
			query:  conversation.Query{Question: "hello", Language: "en"},
			want:   &conversation.Answer{Text: "Hi there", Kind: conversation.KindText},
		},
		{
			name:   "image answer",
			status: http.StatusOK,
			body:   `{"status_code":200,"status":"OK","data":{"answer":"","response_type":"image","image_url":"https://img.example/cat.png"}}`,
			query:  conversation.Query{Question: "cat", Language: "en", Sentiment: "positive"},
			want:   &conversation.Answer{Kind: conversation.KindImage, ImageURL: "https://img.example/cat.png"},
		},
		{
			name:       "application error",
			status:     http.StatusOK,
			body:       `{"status_code":404,"status":"Error","message":"lang not supported"}`,
			query:      conversation.Query{Question: "hello", Language: "xx"},
			wantAPIErr: true,
			wantDetail: "lang not supported",
		},
		{
			name:       "ok status without data",
			status:     http.StatusOK,
			body:       `{"status_code":200,"status":"OK"}`,
			query:      conversation.Query{Question: "hello", Language: "en"},
			wantAPIErr: true,
			wantDetail: "",
		},
		{
			name:       "http error with message",
			status:     http.StatusNotFound,
			body:       `{"status_code":404,"status":"Error","message":"lang not supported"}`,
			query:      conversation.Query{Question: "hello", Language: "xx"},
			wantDetail: "lang not supported",
		},
		{
			name:       "http error without body",
			status:     http.StatusBadGateway,
			body:       `upstream down`,
			query:      conversation.Query{Question: "hello", Language: "en"},
			wantDetail: "unexpected HTTP status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, rec := newTestClient(t, respond(tt.status, tt.body))

			got, err := c.Respond(context.Background(), tt.query)

			bodies := rec.all()
			if len(bodies) != 1 {
				t.Fatalf("remote calls = %d, want 1", len(bodies))
			}
			sent := bodies[0]
			if sent["api"] != "secret" || sent["question"] != tt.query.Question || sent["language"] != tt.query.Language {
				t.Errorf("payload = %v", sent)
			}
			if _, has := sent["sentiment"]; has != (tt.query.Sentiment != "") {
				t.Errorf("sentiment presence = %v for query %+v", has, tt.query)
			}

			if tt.want != nil {
				if err != nil {
					t.Fatalf("Respond() error = %v", err)
				}
				if *got != *tt.want {
					t.Errorf("Respond() = %+v, want %+v", got, tt.want)
				}
				return
			}

			if err == nil {
				t.Fatal("Respond() expected error")
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) != tt.wantAPIErr {
				t.Errorf("APIError = %v, want %v (err %v)", apiErr != nil, tt.wantAPIErr, err)
			}
			if !tt.wantAPIErr {
				var tErr *TransportError
				if !errors.As(err, &tErr) {
					t.Errorf("expected TransportError, got %T", err)
				}
			}
			if d := Detail(err); d != tt.wantDetail {
				t.Errorf("Detail() = %q, want %q", d, tt.wantDetail)
			}
		})
	}
}

func TestRespondConnectionFailure(t *testing.T) {
	t.Parallel()

	c := NewClient(config.NexaloConfig{
		APIKey:  "secret",
		ChatURL: "http://127.0.0.1:1/v1/chat",
		Timeout: time.Second,
	}, nil, logger.Discard())

	_, err := c.Respond(context.Background(), conversation.Query{Question: "hi", Language: "en"})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("Respond() error = %v, want TransportError", err)
	}
	if !strings.Contains(Detail(err), "request failed") {
		t.Errorf("Detail() = %q", Detail(err))
	}
}

func TestTrain(t *testing.T) {
	t.Parallel()

	req := TrainRequest{
		Question:     "ki koro",
		Answer:       "Boring time, ki korbo?",
		Language:     "bn",
		Sentiment:    "neutral",
		ResponseType: "good",
		Category:     "general",
	}

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		c, rec := newTestClient(t, respond(http.StatusOK,
			`{"status_code":201,"status":"Created","data":{"id":1234,"message":"trained","api_calls":17}}`))

		got, err := c.Train(context.Background(), req)
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		if got.ID != "1234" || got.APICalls == nil || *got.APICalls != 17 {
			t.Errorf("Train() = %+v", got)
		}

		sent := rec.all()[0]
		want := map[string]any{
			"api": "secret", "question": "ki koro", "answer": "Boring time, ki korbo?",
			"language": "bn", "sentiment": "neutral", "category": "general",
			"response_type": "text", "image_url": "", "type": "good",
		}
		for k, v := range want {
			if sent[k] != v {
				t.Errorf("payload[%s] = %v, want %v", k, sent[k], v)
			}
		}
	})

	t.Run("string id without counter", func(t *testing.T) {
		t.Parallel()
		c, _ := newTestClient(t, respond(http.StatusCreated,
			`{"status_code":201,"status":"Created","data":{"id":"abc-1","message":"trained"}}`))

		got, err := c.Train(context.Background(), req)
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		if got.ID != "abc-1" || got.APICalls != nil {
			t.Errorf("Train() = %+v", got)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()
		c, _ := newTestClient(t, respond(http.StatusOK,
			`{"status_code":200,"status":"OK","data":{"id":1},"message":"duplicate question"}`))

		_, err := c.Train(context.Background(), req)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "duplicate question" {
			t.Errorf("Train() error = %v, want APIError with remote message", err)
		}
	})
}
