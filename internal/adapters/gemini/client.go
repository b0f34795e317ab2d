package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"smarttravel/internal/adapters/observability"
	"smarttravel/internal/domain"
)

const DefaultModel = "gemini-2.5-flash"

// Generator is a domain.TextGenerator backed by the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
	cfg    *genai.GenerateContentConfig
}

// New builds a generator. baseURL is optional and mainly useful for tests.
func New(ctx context.Context, apiKey, model, baseURL string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: 45 * time.Second},
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(baseURL, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Generator{
		client: client,
		model:  model,
		cfg:    &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.7)},
	}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.cfg)
	if err != nil {
		observability.ObserveExternal("gemini", "generate", 0, time.Since(start))
		return "", fmt.Errorf("%w: gemini: %v", domain.ErrUpstream, err)
	}
	observability.ObserveExternal("gemini", "generate", http.StatusOK, time.Since(start))

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no text", domain.ErrUpstream)
	}
	return text, nil
}
