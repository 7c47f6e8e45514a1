package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Request is a single text-generation call.
type Request struct {
	Prompt      string
	Temperature float32
	// MaxTokens bounds the generated length; zero leaves the provider default.
	MaxTokens int
}

// Generator is implemented by each provider.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Kind() ProviderKind
}

// Client calls the primary generator and, if it fails, the fallback exactly once.
type Client struct {
	primary  Generator
	fallback Generator
	timeout  time.Duration
	logger   *zap.Logger
	closers  []func() error
}

// NewClient wires an explicit primary and optional fallback generator.
func NewClient(primary, fallback Generator, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger,
	}
}

// New builds the generators named in cfg.
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	httpClient := &http.Client{}

	primary, err := newGenerator(ctx, cfg.Primary, httpClient)
	if err != nil {
		return nil, fmt.Errorf("primary provider: %w", err)
	}

	var fallback Generator
	if cfg.HasFallback() {
		fallback, err = newGenerator(ctx, *cfg.Fallback, httpClient)
		if err != nil {
			closeGenerator(primary)
			return nil, fmt.Errorf("fallback provider: %w", err)
		}
	}

	c := NewClient(primary, fallback, cfg.Timeout, logger)
	for _, g := range []Generator{primary, fallback} {
		if closer, ok := g.(interface{ Close() error }); ok {
			c.closers = append(c.closers, closer.Close)
		}
	}
	return c, nil
}

func newGenerator(ctx context.Context, pc ProviderConfig, httpClient *http.Client) (Generator, error) {
	switch pc.Kind {
	case ProviderOllama, "":
		return NewOllamaGenerator(pc.BaseURL, pc.Model, httpClient), nil
	case ProviderHuggingFace:
		return NewHuggingFaceGenerator(pc.BaseURL, pc.Model, pc.APIKey, httpClient)
	case ProviderGemini:
		return NewGeminiGenerator(ctx, pc.Model, pc.APIKey)
	default:
		return nil, fmt.Errorf("unknown provider %q", pc.Kind)
	}
}

func closeGenerator(g Generator) {
	if closer, ok := g.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// HasFallback reports whether a secondary generator is wired.
func (c *Client) HasFallback() bool {
	return c.fallback != nil
}

// Generate returns the first successful provider response. Empty text counts as
// success; interpreting it is left to the caller. When every attempt fails the
// error matches ErrGenerationUnavailable.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	text, primaryErr := c.attempt(ctx, c.primary, req)
	if primaryErr == nil {
		return text, nil
	}

	if c.fallback == nil {
		c.logger.Warn("generation failed, no fallback configured",
			zap.String("provider", string(c.primary.Kind())),
			zap.Error(primaryErr))
		return "", &UnavailableError{Primary: primaryErr}
	}

	c.logger.Warn("primary generation failed, trying fallback",
		zap.String("provider", string(c.primary.Kind())),
		zap.String("fallback", string(c.fallback.Kind())),
		zap.Error(primaryErr))

	text, fallbackErr := c.attempt(ctx, c.fallback, req)
	if fallbackErr == nil {
		return text, nil
	}

	c.logger.Error("fallback generation failed",
		zap.String("provider", string(c.fallback.Kind())),
		zap.Error(fallbackErr))
	return "", &UnavailableError{Primary: primaryErr, Fallback: fallbackErr}
}

func (c *Client) attempt(ctx context.Context, g Generator, req Request) (string, error) {
	if g == nil {
		return "", errors.New("no provider configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.Generate(ctx, req)
	c.logger.Debug("generation attempt",
		zap.String("provider", string(g.Kind())),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_length", len(text)),
		zap.Bool("ok", err == nil))
	return text, err
}

// Close releases provider resources.
func (c *Client) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
