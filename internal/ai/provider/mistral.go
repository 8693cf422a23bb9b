package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	mistralTemperature = 0.7
	mistralMaxTokens   = 1500
)

// MistralProvider calls the Mistral chat completions API.
type MistralProvider struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string // overridable for tests
}

// NewMistralProvider creates a new Mistral completion provider.
func NewMistralProvider(httpClient *http.Client, apiKey, model, baseURL string) *MistralProvider {
	return &MistralProvider{
		httpClient: httpClient,
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name returns "mistral".
func (p *MistralProvider) Name() string { return NameMistral }

// Configured reports whether an API key is set.
func (p *MistralProvider) Configured() bool { return p.apiKey != "" }

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
}

type mistralResponse struct {
	Choices []struct {
		Message mistralMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends the system prompt and message to /chat/completions.
func (p *MistralProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(mistralRequest{
		Model: p.model,
		Messages: []mistralMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Message},
		},
		Temperature: mistralTemperature,
		MaxTokens:   mistralMaxTokens,
	})
	if err != nil {
		return nil, p.fail(0, fmt.Errorf("marshaling request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, p.fail(0, fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, p.fail(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, p.fail(resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(snippet))))
	}

	var result mistralResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, p.fail(resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return nil, p.fail(resp.StatusCode, fmt.Errorf("empty completion"))
	}

	return &Completion{
		Text:     result.Choices[0].Message.Content,
		Tokens:   result.Usage.TotalTokens,
		Provider: NameMistral,
	}, nil
}

func (p *MistralProvider) fail(status int, err error) *Error {
	return &Error{Provider: NameMistral, StatusCode: status, Err: err}
}
