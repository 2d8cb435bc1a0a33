package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024
)

// HTTPConfig holds configuration for the HTTP provider client.
type HTTPConfig struct {
	BaseURL         string
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// DefaultHTTPConfig returns default provider client configuration
func DefaultHTTPConfig(baseURL string) HTTPConfig {
	return HTTPConfig{
		BaseURL:         baseURL,
		Timeout:         DefaultTimeout,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
}

// HTTPProvider talks to the AI annotation service over HTTP. It implements
// EmbeddingProvider, VisionProvider and TextAnalysisProvider against the
// service's /embeddings, /analyze/image and /analyze/text endpoints.
type HTTPProvider struct {
	client  *http.Client
	logger  ectologger.Logger
	baseURL string
}

// NewHTTPProvider creates a provider client with pooled connections.
func NewHTTPProvider(cfg HTTPConfig, logger ectologger.Logger) *HTTPProvider {
	transport := &http.Transport{
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}

	return &HTTPProvider{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger:  logger,
		baseURL: cfg.BaseURL,
	}
}

// Embed requests a text embedding from the annotation service.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, span := tracing.StartSpan(ctx, "providers.HTTPProvider.Embed")
	defer span.End()

	var result struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := p.postJSON(ctx, "/embeddings", map[string]string{"text": text}, &result); err != nil {
		return nil, err
	}
	return result.Embedding, nil
}

// AnalyzeImage requests visual metadata for an image.
func (p *HTTPProvider) AnalyzeImage(ctx context.Context, imageURL string) (*models.ImageAnalysis, error) {
	ctx, span := tracing.StartSpan(ctx, "providers.HTTPProvider.AnalyzeImage")
	defer span.End()

	var result models.ImageAnalysis
	if err := p.postJSON(ctx, "/analyze/image", map[string]string{"image_url": imageURL}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeText requests field extraction for a description.
func (p *HTTPProvider) AnalyzeText(ctx context.Context, text string) (*models.TextAnalysis, error) {
	ctx, span := tracing.StartSpan(ctx, "providers.HTTPProvider.AnalyzeText")
	defer span.End()

	var result models.TextAnalysis
	if err := p.postJSON(ctx, "/analyze/text", map[string]string{"text": text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *HTTPProvider) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Errorf("Provider request failed: POST %s", url)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > MaxResponseSize {
		return fmt.Errorf("response body too large: %d bytes (max %d)", len(data), MaxResponseSize)
	}

	p.logger.WithContext(ctx).Debugf("Provider POST %s -> %d (%s)", url, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httperror.NewHTTPErrorf(resp.StatusCode, "provider returned %d for %s", resp.StatusCode, path)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}

	return nil
}
