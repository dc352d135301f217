// ABOUTME: Google GenAI (Gemini) implementation of the Generator interface
// ABOUTME: Wraps client.Models.GenerateContent and maps usage metadata
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GenAI generates text with a Gemini model.
type GenAI struct {
	client *genai.Client
	model  string
}

// NewGenAI creates a Gemini-backed generator. An empty model uses
// DefaultModel.
func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAI{client: client, model: model}, nil
}

// FromEnv builds a generator from GEMINI_API_KEY and CALLCOACH_MODEL. The
// model argument, when set, wins over the environment.
func FromEnv(ctx context.Context, model string) (*GenAI, error) {
	if model == "" {
		model = os.Getenv("CALLCOACH_MODEL")
	}
	return NewGenAI(ctx, os.Getenv("GEMINI_API_KEY"), model)
}

func (g *GenAI) Model() string { return g.model }

func (g *GenAI) Generate(ctx context.Context, req Request) (*Response, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = req.MaxTokens
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	out := &Response{
		Text:  strings.TrimSpace(resp.Text()),
		Model: g.model,
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			Prompt:     resp.UsageMetadata.PromptTokenCount,
			Candidates: resp.UsageMetadata.CandidatesTokenCount,
			Total:      resp.UsageMetadata.TotalTokenCount,
		}
	}
	if out.Text == "" {
		return nil, fmt.Errorf("GenAI returned no text")
	}

	log.Debug("llm: generated", "model", g.model, "prompt_tokens", out.Usage.Prompt, "total_tokens", out.Usage.Total)
	return out, nil
}
