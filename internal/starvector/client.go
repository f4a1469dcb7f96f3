package starvector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"
)

const maxNewTokens = 2048

// responses can be large; anything past this is not a plausible SVG
const maxResponseSize = 4 * 1024 * 1024

// Client obtains raw SVG markup from a text prompt. Implementations may fail
// after bounded retries; the resolver treats any error as absence.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: defaultTransport(cfg),
		}
	}

	return &client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.Named("starvector"),
	}, nil
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

var svgBlockRe = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)

// Generate posts the prompt to the inference endpoint and extracts the first
// <svg> block from the response. The returned markup is raw model output:
// callers must sanitize and validate it before use.
func (c *client) Generate(parentCtx context.Context, prompt string) (string, error) {
	start := time.Now()

	if prompt == "" {
		return "", fmt.Errorf("starvector: prompt is empty")
	}

	ctx, cancel := context.WithTimeout(parentCtx, c.cfg.RequestTimeout)
	defer cancel()

	body, err := json.Marshal(inferenceRequest{
		Inputs:     prompt,
		Parameters: inferenceParameters{MaxNewTokens: maxNewTokens},
	})
	if err != nil {
		return "", fmt.Errorf("starvector: marshal request: %w", err)
	}

	doOnce := func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("starvector: build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
		req.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(req)
	}

	resp, err := c.doWithRetry(ctx, doOnce)
	if err != nil {
		c.logger.Warn("generation failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("starvector: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upstream error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(raw), 200)),
		)
		return "", fmt.Errorf("starvector: upstream %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	svg := svgBlockRe.FindString(string(raw))
	if svg == "" {
		return "", fmt.Errorf("starvector: no svg block in response (%d bytes)", len(raw))
	}

	c.logger.Info("generation completed",
		zap.Int("svg_bytes", len(svg)),
		zap.Duration("duration", time.Since(start)),
	)
	return svg, nil
}

// Close releases idle connections.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
