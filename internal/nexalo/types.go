package nexalo

import (
	"bytes"
	"encoding/json"
)

type envelope[T any] struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Data       *T     `json:"data"`
	Message    string `json:"message"`
}

type chatPayload struct {
	API       string `json:"api"`
	Question  string `json:"question"`
	Language  string `json:"language"`
	Sentiment string `json:"sentiment,omitempty"`
}

type chatData struct {
	Answer       string `json:"answer"`
	ResponseType string `json:"response_type"`
	ImageURL     string `json:"image_url"`
}

// TrainRequest is a question/answer pair to submit for training.
type TrainRequest struct {
	Question     string
	Answer       string
	Language     string
	Sentiment    string
	ResponseType string
	Category     string
}

type trainPayload struct {
	API          string `json:"api"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Language     string `json:"language"`
	Sentiment    string `json:"sentiment"`
	Category     string `json:"category"`
	ResponseType string `json:"response_type"`
	ImageURL     string `json:"image_url"`
	Type         string `json:"type"`
}

// TrainResult is the data block of a successful training call.
type TrainResult struct {
	ID       FlexID `json:"id"`
	Message  string `json:"message"`
	APICalls *int64 `json:"api_calls"`
}

// FlexID accepts both JSON strings and numbers.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

type errorBody struct {
	Message string `json:"message"`
}
