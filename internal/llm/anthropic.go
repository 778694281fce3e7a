package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/genai"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	defaultMaxTokens        = 8192
	structuredToolName      = "emit_article_output"
)

var _ Client = (*AnthropicClient)(nil)

// AnthropicClient adapts the Anthropic Messages API to the Client
// interface. When a ResponseSchema is supplied, it forces structured
// output by declaring a single tool whose input_schema is the response
// schema and requiring the model to call it.
type AnthropicClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// AnthropicOption configures an AnthropicClient.
type AnthropicOption func(*AnthropicClient)

// WithBaseURL overrides the API base URL, useful for tests with httptest.
func WithBaseURL(url string) AnthropicOption {
	return func(a *AnthropicClient) { a.baseURL = url }
}

// NewAnthropicClient creates a client for the given model (e.g.
// "claude-sonnet-4-5").
func NewAnthropicClient(apiKey, model string, opts ...AnthropicOption) *AnthropicClient {
	a := &AnthropicClient{
		apiKey:  apiKey,
		baseURL: defaultAnthropicBaseURL,
		model:   model,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate implements Client.
func (a *AnthropicClient) Generate(ctx context.Context, req Request) (string, error) {
	body := a.buildRequestBody(req)

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &Error{Kind: ErrUpstreamError, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Kind: ErrUpstreamError, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	if hasWebSearch(req.Tools) {
		httpReq.Header.Set("anthropic-beta", "web-search-2025-03-05")
	}

	resp, err := a.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", &Error{Kind: ErrTimeout, Err: err}
		}
		return "", &Error{Kind: ErrUpstreamError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &Error{Kind: ErrRateLimited, Err: fmt.Errorf("rate limited")}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &Error{Kind: ErrUpstreamError, Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))}
	}

	var apiResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", &Error{Kind: ErrUpstreamError, Err: fmt.Errorf("decode response: %w", err)}
	}

	text, err := a.extractText(apiResp, req.ResponseSchema != nil)
	if err != nil {
		return "", &Error{Kind: ErrSchemaViolation, Err: err}
	}
	return text, nil
}

func (a *AnthropicClient) buildRequestBody(req Request) map[string]any {
	body := map[string]any{
		"model":      a.model,
		"max_tokens": defaultMaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": req.Prompt},
		},
	}

	var tools []map[string]any
	for _, t := range req.Tools {
		if t.GoogleSearch != nil {
			tools = append(tools, map[string]any{"type": "web_search_20250305", "name": "web_search"})
		}
		for _, fd := range t.FunctionDeclarations {
			entry := map[string]any{"name": fd.Name, "description": fd.Description}
			if fd.ParametersJsonSchema != nil {
				entry["input_schema"] = fd.ParametersJsonSchema
			} else if fd.Parameters != nil {
				entry["input_schema"] = fd.Parameters
			}
			tools = append(tools, entry)
		}
	}

	if req.ResponseSchema != nil {
		tools = append(tools, map[string]any{
			"name":         structuredToolName,
			"description":  "Emit the final answer as structured data matching the required schema.",
			"input_schema": req.ResponseSchema,
		})
		body["tool_choice"] = map[string]any{"type": "tool", "name": structuredToolName}
	}

	if len(tools) > 0 {
		body["tools"] = tools
	}

	return body
}

func (a *AnthropicClient) extractText(resp anthropicResponse, structured bool) (string, error) {
	var text string
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text += block.Text
		case "tool_use":
			if structured && block.Name == structuredToolName {
				encoded, err := json.Marshal(block.Input)
				if err != nil {
					return "", fmt.Errorf("marshal tool_use input: %w", err)
				}
				return string(encoded), nil
			}
		}
	}
	if structured {
		return "", fmt.Errorf("model did not call %s", structuredToolName)
	}
	return text, nil
}

func hasWebSearch(tools []*genai.Tool) bool {
	for _, t := range tools {
		if t.GoogleSearch != nil {
			return true
		}
	}
	return false
}

type anthropicResponse struct {
	Content    []anthropicBlock `json:"content"`
	StopReason string           `json:"stop_reason"`
}

type anthropicBlock struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input any    `json:"input,omitempty"`
}
