package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	yandexTemperature = 0.6
	yandexMaxTokens   = 2000
)

// YandexProvider calls the YandexGPT foundation models completion API.
type YandexProvider struct {
	httpClient *http.Client
	apiKey     string
	folderID   string
	model      string
	baseURL    string // overridable for tests
}

// NewYandexProvider creates a new YandexGPT completion provider.
func NewYandexProvider(httpClient *http.Client, apiKey, folderID, model, baseURL string) *YandexProvider {
	return &YandexProvider{
		httpClient: httpClient,
		apiKey:     apiKey,
		folderID:   folderID,
		model:      model,
		baseURL:    baseURL,
	}
}

// Name returns "yandex".
func (p *YandexProvider) Name() string { return NameYandex }

// Configured reports whether both the API key and folder ID are set.
func (p *YandexProvider) Configured() bool { return p.apiKey != "" && p.folderID != "" }

type yandexMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type yandexRequest struct {
	ModelURI          string `json:"modelUri"`
	CompletionOptions struct {
		Stream      bool    `json:"stream"`
		Temperature float64 `json:"temperature"`
		MaxTokens   string  `json:"maxTokens"`
	} `json:"completionOptions"`
	Messages []yandexMessage `json:"messages"`
}

type yandexResponse struct {
	Result struct {
		Alternatives []struct {
			Message yandexMessage `json:"message"`
		} `json:"alternatives"`
		Usage struct {
			TotalTokens json.Number `json:"totalTokens"`
		} `json:"usage"`
	} `json:"result"`
}

// Complete sends the system prompt and message to the completion endpoint.
func (p *YandexProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	payload := yandexRequest{
		ModelURI: fmt.Sprintf("gpt://%s/%s", p.folderID, p.model),
		Messages: []yandexMessage{
			{Role: "system", Text: req.System},
			{Role: "user", Text: req.Message},
		},
	}
	payload.CompletionOptions.Temperature = yandexTemperature
	payload.CompletionOptions.MaxTokens = strconv.Itoa(yandexMaxTokens)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, p.fail(0, fmt.Errorf("marshaling request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, p.fail(0, fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Api-Key "+p.apiKey)
	httpReq.Header.Set("x-folder-id", p.folderID)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, p.fail(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, p.fail(resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(snippet))))
	}

	var result yandexResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, p.fail(resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	if len(result.Result.Alternatives) == 0 || strings.TrimSpace(result.Result.Alternatives[0].Message.Text) == "" {
		return nil, p.fail(resp.StatusCode, fmt.Errorf("empty completion"))
	}

	// totalTokens arrives as a quoted int64.
	tokens, _ := result.Result.Usage.TotalTokens.Int64()

	return &Completion{
		Text:     result.Result.Alternatives[0].Message.Text,
		Tokens:   int(tokens),
		Provider: NameYandex,
	}, nil
}

func (p *YandexProvider) fail(status int, err error) *Error {
	return &Error{Provider: NameYandex, StatusCode: status, Err: err}
}
