package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-workflow-be/pkg/apperror"
)

// Generator is the single text-generation call the workflows depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gateway bounds each provider call with a timeout and reports every failure
// as a GatewayError. It never retries.
type Gateway struct {
	provider LLMProvider
	timeout  time.Duration
	opts     []Option
}

var _ Generator = (*Gateway)(nil)

func NewGateway(provider LLMProvider, timeout time.Duration, opts ...Option) *Gateway {
	return &Gateway{provider: provider, timeout: timeout, opts: opts}
}

func (g *Gateway) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.provider.Generate(ctx, prompt, g.opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apperror.Gateway(fmt.Sprintf("text generation timed out after %s", g.timeout), err)
		}
		return "", apperror.Gateway("text generation failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperror.Gateway("text generation returned an empty response", nil)
	}
	return text, nil
}
