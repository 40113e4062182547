package assistant

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Supported providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Options configures the collaborator client.
type Options struct {
	Provider string
	Model    string
	// ServerURL is the ollama host; ignored for hosted providers.
	ServerURL string
	// APIKey authenticates hosted providers.
	APIKey string
}

// Client sends screened prompts to a language model and returns its reply.
type Client struct {
	llm   llms.Model
	model string
}

// NewClient creates a collaborator client for the configured provider.
func NewClient(opts Options) (*Client, error) {
	var model llms.Model
	var err error

	switch opts.Provider {
	case ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(opts.Model),
			ollama.WithServerURL(opts.ServerURL),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(opts.APIKey),
			openai.WithModel(opts.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", opts.Provider)
	}

	return &Client{llm: model, model: opts.Model}, nil
}

// Advise screens the prompt and, if it passes, sends it and returns the
// model's reply.
func (c *Client) Advise(ctx context.Context, prompt string) (string, error) {
	if err := Screen(prompt); err != nil {
		return "", err
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate advice: %w", err)
	}
	return reply, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }
