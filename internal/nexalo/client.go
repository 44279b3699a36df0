// Package nexalo is a client for the Nexalo SIM conversational and training API.
package nexalo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgard/nexabot/internal/config"
	"github.com/edgard/nexabot/internal/conversation"
)

const maxBodySize = 1 << 20

// Client talks to the Nexalo API. It makes exactly one attempt per call.
type Client struct {
	httpClient *http.Client
	apiKey     string
	chatURL    string
	trainURL   string
	logger     *slog.Logger
}

var _ conversation.Responder = (*Client)(nil)

// NewClient creates a client. httpClient may be nil, in which case one with
// cfg.Timeout is created.
func NewClient(cfg config.NexaloConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		chatURL:    cfg.ChatURL,
		trainURL:   cfg.TrainURL,
		logger:     logger.With("component", "nexalo_client"),
	}
}

// Respond sends q to the conversational endpoint. Success requires
// status_code 200, status "OK" and a data block.
func (c *Client) Respond(ctx context.Context, q conversation.Query) (*conversation.Answer, error) {
	payload := chatPayload{
		API:       c.apiKey,
		Question:  q.Question,
		Language:  q.Language,
		Sentiment: q.Sentiment,
	}

	var resp envelope[chatData]
	if err := c.doRequest(ctx, c.chatURL, payload, &resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK || resp.Status != "OK" || resp.Data == nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Message: resp.Message}
	}

	kind := conversation.KindText
	if resp.Data.ResponseType == conversation.KindImage {
		kind = conversation.KindImage
	}
	c.logger.DebugContext(ctx, "Received chat answer", "response_type", resp.Data.ResponseType, "language", q.Language)
	return &conversation.Answer{
		Text:     resp.Data.Answer,
		Kind:     kind,
		ImageURL: resp.Data.ImageURL,
	}, nil
}

// Train submits a question/answer pair. Success requires status_code 201,
// status "Created" and a data block.
func (c *Client) Train(ctx context.Context, r TrainRequest) (*TrainResult, error) {
	payload := trainPayload{
		API:          c.apiKey,
		Question:     r.Question,
		Answer:       r.Answer,
		Language:     r.Language,
		Sentiment:    r.Sentiment,
		Category:     r.Category,
		ResponseType: conversation.KindText,
		ImageURL:     "",
		Type:         r.ResponseType,
	}

	var resp envelope[TrainResult]
	if err := c.doRequest(ctx, c.trainURL, payload, &resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated || resp.Status != "Created" || resp.Data == nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Message: resp.Message}
	}

	c.logger.InfoContext(ctx, "Training record created", "id", string(resp.Data.ID), "language", r.Language)
	return resp.Data, nil
}

// doRequest posts body as JSON to url and decodes a 2xx response into out.
func (c *Client) doRequest(ctx context.Context, url string, body, out any) error {
	req, err := c.buildRequest(ctx, url, body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("failed to build request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &TransportError{HTTPStatus: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return &TransportError{
			HTTPStatus: resp.StatusCode,
			Message:    eb.Message,
			Err:        fmt.Errorf("unexpected HTTP status %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{HTTPStatus: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// buildRequest creates a POST request with a JSON body.
func (c *Client) buildRequest(ctx context.Context, url string, body any) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
