// Package mock provides a scripted LLMProvider for tests and offline runs.
package mock

import (
	"context"
	"errors"
	"sync"
	"time"

	"ai-workflow-be/pkg/llm"
)

// ErrExhausted is returned when no scripted response is left.
var ErrExhausted = errors.New("mock: no scripted response left")

// Provider replays queued responses in order. When Handler is set it answers
// every call instead of the queue.
type Provider struct {
	Handler func(prompt string) (string, error)
	Delay   time.Duration

	mu        sync.Mutex
	responses []string
	failures  []error
	prompts   []string
}

var _ llm.LLMProvider = (*Provider)(nil)

func NewProvider(responses ...string) *Provider {
	return &Provider{responses: responses}
}

// Queue appends responses to the script.
func (p *Provider) Queue(responses ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, responses...)
}

// Fail makes the next call return err instead of consuming a response.
func (p *Provider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures = append(p.failures, err)
}

// Prompts returns every prompt received so far.
func (p *Provider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

// Calls is the number of prompts received.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	var prompt string
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return p.Generate(ctx, prompt, opts...)
}

func (p *Provider) Generate(ctx context.Context, prompt string, _ ...llm.Option) (string, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		p.mu.Unlock()
		return "", err
	}
	handler := p.Handler
	if handler == nil && len(p.responses) == 0 {
		p.mu.Unlock()
		return "", ErrExhausted
	}
	var resp string
	if handler == nil {
		resp = p.responses[0]
		p.responses = p.responses[1:]
	}
	p.mu.Unlock()

	if handler != nil {
		return handler(prompt)
	}
	return resp, nil
}
