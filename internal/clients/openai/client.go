// Package openai is a minimal client for the structured-output endpoint used
// to draft listing metadata. The caller treats any failure here as a soft
// failure: stored metadata is never touched when generation errors out.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/listora/listora-backend/internal/pkg/httpx"
	"github.com/listora/listora-backend/internal/platform/envutil"
	"github.com/listora/listora-backend/internal/platform/logger"
)

// MetadataRequest is the entity context the model drafts from.
type MetadataRequest struct {
	EntityName  string
	City        string
	Description string
	Services    []string
	BrandToken  string
}

// MetadataCandidate is one generated draft: a title, three description
// variants and a comma-separated keyword list.
type MetadataCandidate struct {
	Title        string    `json:"title"`
	Descriptions [3]string `json:"descriptions"`
	Keywords     string    `json:"keywords"`
}

type Client interface {
	GenerateListingMetadata(ctx context.Context, req MetadataRequest) (*MetadataCandidate, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewClient(baseLog *logger.Logger) (Client, error) {
	apiKey := envutil.String("OPENAI_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	return &client{
		log:        baseLog.With("client", "OpenAIClient"),
		baseURL:    envutil.String("OPENAI_BASE_URL", "https://api.openai.com"),
		apiKey:     apiKey,
		model:      envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
		httpClient: &http.Client{Timeout: time.Duration(envutil.Int("OPENAI_TIMEOUT_SECONDS", 60)) * time.Second},
		maxRetries: envutil.Int("OPENAI_MAX_RETRIES", 3),
	}, nil
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("openai request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat map[string]any `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
	} `json:"choices"`
}

var metadataSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"title", "descriptions", "keywords"},
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
		"descriptions": map[string]any{
			"type":     "array",
			"minItems": 3,
			"maxItems": 3,
			"items":    map[string]any{"type": "string"},
		},
		"keywords": map[string]any{"type": "string"},
	},
}

func (c *client) GenerateListingMetadata(ctx context.Context, in MetadataRequest) (*MetadataCandidate, error) {
	system := fmt.Sprintf(
		"You write SEO metadata for a %s directory listing. "+
			"The title must be 40-60 characters and include the listing name, the city and the token %q. "+
			"Each of the 3 descriptions must be 150-160 characters. "+
			"Keywords is one comma-separated list of 12-15 terms.",
		in.BrandToken, in.BrandToken)

	user := fmt.Sprintf("Name: %s\nCity: %s\nAbout: %s", in.EntityName, in.City, in.Description)
	if len(in.Services) > 0 {
		user += "\nServices: " + strings.Join(in.Services, ", ")
	}

	req := chatRequest{
		Model:       c.model,
		Temperature: 0.4,
	}
	req.Messages = []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	req.ResponseFormat = map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "listing_metadata",
			"schema": metadataSchema,
			"strict": true,
		},
	}

	var resp chatResponse
	if err := c.do(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}
	if refusal := resp.Choices[0].Message.Refusal; refusal != "" {
		return nil, fmt.Errorf("model refused: %s", refusal)
	}

	var parsed struct {
		Title        string   `json:"title"`
		Descriptions []string `json:"descriptions"`
		Keywords     string   `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	if len(parsed.Descriptions) != 3 {
		return nil, fmt.Errorf("expected 3 description variants, got %d", len(parsed.Descriptions))
	}

	out := &MetadataCandidate{
		Title:    strings.TrimSpace(parsed.Title),
		Keywords: strings.TrimSpace(parsed.Keywords),
	}
	for i := range out.Descriptions {
		out.Descriptions[i] = strings.TrimSpace(parsed.Descriptions[i])
	}
	return out, nil
}
