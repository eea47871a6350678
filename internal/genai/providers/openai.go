package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/prepdeck/interview-manager/internal/genai"
)

// OpenAIProvider implements the OpenAI chat completions API. It also works
// against OpenAI-compatible endpoints when BaseURL is overridden.
type OpenAIProvider struct{}

func init() {
	genai.RegisterProvider(&OpenAIProvider{})
}

// Name returns the provider identifier.
func (o *OpenAIProvider) Name() string {
	return "openai"
}

// BuildURL constructs the chat completions endpoint.
func (o *OpenAIProvider) BuildURL(baseURL, _ string) string {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return baseURL + "/chat/completions"
}

// SetHeaders adds the bearer token.
func (o *OpenAIProvider) SetHeaders(req *http.Request, apiKey string) {
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []genai.Message `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

// BuildRequestBody creates the chat completions JSON body.
func (o *OpenAIProvider) BuildRequestBody(model string, messages []genai.Message, temperature *float64, maxTokens int) ([]byte, error) {
	return json.Marshal(openAIRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage genai.TokenUsage `json:"usage"`
}

// ParseResponse extracts the first choice's message content.
func (o *OpenAIProvider) ParseResponse(body []byte, model string) (*genai.Response, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal openai response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai response contains no choices")
	}
	if resp.Model == "" {
		resp.Model = model
	}

	return &genai.Response{
		Content:      strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:        resp.Model,
		FinishReason: resp.Choices[0].FinishReason,
		Usage:        resp.Usage,
	}, nil
}
