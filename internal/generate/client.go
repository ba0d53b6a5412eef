// Package generate produces trivia boards by calling an external
// text-generation service. The service returns free text that may wrap the
// board JSON in commentary; the client extracts the first balanced JSON
// object, parses it, and validates the result before handing it to the
// engine. Any failure (network, HTTP status, missing or malformed JSON,
// wrong shape) is a single outcome: an error and no board.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/quizforge/triviaboard/internal/triviaboard"
)

// Client calls the content-generation service.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *slog.Logger
}

type Config struct {
	Endpoint  string
	APIKey    string
	Model     string
	MaxTokens int
	// Timeout bounds the whole generation call. The caller's context can
	// cancel it earlier.
	Timeout time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generateRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type generateResponse struct {
	Content []contentBlock `json:"content"`
}

// Board requests a freshly generated board from the service. On any failure
// the returned error is the single, human-readable account of what went
// wrong; no partial board is ever returned.
func (c *Client) Board(ctx context.Context) (triviaboard.Board, error) {
	start := time.Now()

	body, err := json.Marshal(generateRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: boardPrompt}},
	})
	if err != nil {
		return triviaboard.Board{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return triviaboard.Board{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return triviaboard.Board{}, fmt.Errorf("generation call cancelled: %w", ctx.Err())
		}
		return triviaboard.Board{}, fmt.Errorf("calling generation service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return triviaboard.Board{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("generation service error",
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return triviaboard.Board{}, fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return triviaboard.Board{}, fmt.Errorf("decoding service response: %w", err)
	}

	text := ""
	for _, block := range gr.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return triviaboard.Board{}, fmt.Errorf("service response contains no text content")
	}

	board, err := parseBoard(text)
	if err != nil {
		return triviaboard.Board{}, err
	}

	c.logger.Info("board generated",
		"duration_ms", time.Since(start).Milliseconds(),
		"categories", len(board.Categories),
	)
	return board, nil
}
