package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/thoreinstein/repokit/internal/errors"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	baseURL string
}

var _ Generator = (*Gemini)(nil)

// GeminiOption configures a Gemini generator.
type GeminiOption func(*Gemini)

// WithModel selects the model. Empty keeps DefaultModel.
func WithModel(model string) GeminiOption {
	return func(g *Gemini) {
		if model != "" {
			g.model = model
		}
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) GeminiOption {
	return func(g *Gemini) { g.baseURL = url }
}

// NewGemini creates a client for apiKey.
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrMissingCredential, "GEMINI_API_KEY")
	}

	g := &Gemini{model: DefaultModel}
	for _, opt := range opts {
		opt(g)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating Gemini client")
	}
	g.client = client
	return g, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

// Generate sends prompt and returns the trimmed text of the answer.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Wrapf(err, "calling %s", g.model)
	}
	return strings.TrimSpace(resp.Text()), nil
}
