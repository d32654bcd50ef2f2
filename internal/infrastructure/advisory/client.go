package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/bibbank/loanrisk/internal/domain/port"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Config configures the advisory HTTP client.
type Config struct {
	// BaseURL is the service root, e.g. http://localhost:11434.
	BaseURL string
	// Model is the model name sent with every request.
	Model string
	// RatePerSec limits outgoing requests. Zero or less means unlimited.
	RatePerSec float64
	// Burst is the limiter burst size.
	Burst int
	// CacheTTL is how long successful opinions are reused. Zero disables the cache.
	CacheTTL time.Duration
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Client asks an Ollama-compatible generate endpoint for a risk opinion.
// It implements port.AdvisoryScorer. Callers bound each call with a context
// deadline; the client itself sets no timeout.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   *resultCache
	logger  *slog.Logger
}

// NewClient creates a Client. A nil httpClient gets a traced default client.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		cache:   newResultCache(cfg.CacheTTL),
		logger:  logger,
	}
}

// Score sends one generate request and maps the model's JSON answer.
// Transport failures, non-2xx answers and unusable bodies are reported
// wrapped in port.ErrAdvisoryUnavailable.
func (c *Client) Score(ctx context.Context, in port.AdvisoryInput) (port.AdvisoryResult, error) {
	key := cacheKey(c.cfg.Model, in)
	if res, ok := c.cache.get(key); ok {
		c.logger.DebugContext(ctx, "advisory cache hit", "purpose", string(in.Purpose))
		return res, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return port.AdvisoryResult{}, fmt.Errorf("wait for advisory rate limit: %w", err)
	}

	text, err := c.generate(ctx, buildPrompt(in))
	if err != nil {
		return port.AdvisoryResult{}, err
	}

	res, err := parseOpinion(text)
	if err != nil {
		return port.AdvisoryResult{}, fmt.Errorf("%w: %w", port.ErrAdvisoryUnavailable, err)
	}

	c.cache.set(key, res)
	return res, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.cfg.Model,
		Prompt:  prompt,
		Stream:  false,
		Format:  "json",
		Options: map[string]any{"temperature": 0.1},
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %w", port.ErrAdvisoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", fmt.Errorf("%w: generate returned status %d", port.ErrAdvisoryUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: decode generate response: %w", port.ErrAdvisoryUnavailable, err)
	}
	return out.Response, nil
}
