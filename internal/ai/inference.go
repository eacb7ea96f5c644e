package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Config carries the inference provider settings, read once at startup.
type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// Client calls a hosted text-generation endpoint. Every failure mode is
// returned as an error; callers decide how to degrade.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "inference",
		MaxRequests: 2,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
	}
}

// Generate sends the prompt and returns the generated text. The response is
// parsed permissively: a result array, a single result object, or as a last
// resort the raw body.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generate(ctx, prompt)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", fmt.Errorf("inference temporarily unavailable: %w", err)
		}
		return "", err
	}
	return result.(string), nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"inputs": prompt,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal inference request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build inference request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read inference response failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference response status %d: %s", resp.StatusCode, string(raw))
	}

	return parseGeneratedText(raw), nil
}

func parseGeneratedText(raw []byte) string {
	var results []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &results); err == nil && len(results) > 0 && results[0].GeneratedText != "" {
		return results[0].GeneratedText
	}

	var single struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &single); err == nil && single.GeneratedText != "" {
		return single.GeneratedText
	}

	return strings.TrimSpace(string(raw))
}
