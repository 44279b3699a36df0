// Package conversation defines the contract between the message forwarder
// and the backends that produce answers.
package conversation

import "context"

// Query is a single user turn.
type Query struct {
	Question  string
	Language  string
	Sentiment string
}

// Answer kinds.
const (
	KindText  = "text"
	KindImage = "image"
)

// Answer is a backend reply.
type Answer struct {
	Text     string
	Kind     string
	ImageURL string
}

// IsImage reports whether the answer should be delivered as a photo.
func (a Answer) IsImage() bool {
	return a.Kind == KindImage && a.ImageURL != ""
}

// Responder produces an answer for a query.
type Responder interface {
	Respond(ctx context.Context, q Query) (*Answer, error)
}
