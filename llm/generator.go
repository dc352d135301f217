// ABOUTME: Text-generation collaborator used for custom pitches and objection drafts
// ABOUTME: Defines the Generator interface, request/response shapes, and a canned fake
package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrNoAPIKey is returned when no Gemini API key is configured.
var ErrNoAPIKey = errors.New("llm: GEMINI_API_KEY is not set")

// Usage is the token accounting reported by the model.
type Usage struct {
	Prompt     int32 `json:"prompt_tokens"`
	Candidates int32 `json:"candidate_tokens"`
	Total      int32 `json:"total_tokens"`
}

type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int32
}

type Response struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Fake returns canned text and records the requests it saw.
type Fake struct {
	Text string
	Err  error

	mu       sync.Mutex
	Requests []Request
}

func (f *Fake) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	words := int32(len(req.Prompt) / 4)
	out := int32(len(f.Text) / 4)
	return &Response{
		Text:  f.Text,
		Model: "fake",
		Usage: Usage{Prompt: words, Candidates: out, Total: words + out},
	}, nil
}

// LastRequest returns the most recent request, or a zero Request.
func (f *Fake) LastRequest() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return Request{}
	}
	return f.Requests[len(f.Requests)-1]
}
