// Package genaimock provides a scripted Generator for tests.
package genaimock

import (
	"context"
	"sync"

	"github.com/prepdeck/interview-manager/internal/genai"
)

// Generator replays scripted responses in order. Once the script is
// exhausted the last response repeats. Safe for concurrent use.
type Generator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	script    func(call int, prompt string) (string, error)
	prompts   []string
}

var _ genai.Generator = (*Generator)(nil)

// Option configures the mock Generator.
type Option func(*Generator)

// WithResponses sets the responses returned call by call.
func WithResponses(responses ...string) Option {
	return func(g *Generator) {
		g.responses = responses
	}
}

// WithErrors sets errors returned call by call. A nil entry means the call
// succeeds with the corresponding response.
func WithErrors(errs ...error) Option {
	return func(g *Generator) {
		g.errs = errs
	}
}

// WithScript replaces the response tables with a function of the call
// number (0-based) and prompt.
func WithScript(script func(call int, prompt string) (string, error)) Option {
	return func(g *Generator) {
		g.script = script
	}
}

// NewGenerator creates a scripted Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate records the prompt and returns the next scripted response.
func (g *Generator) Generate(ctx context.Context, prompt string, _ ...genai.GenerateOption) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	call := len(g.prompts)
	g.prompts = append(g.prompts, prompt)

	if g.script != nil {
		return g.script(call, prompt)
	}

	if call < len(g.errs) && g.errs[call] != nil {
		return "", g.errs[call]
	}

	if len(g.responses) == 0 {
		return "", nil
	}
	if call >= len(g.responses) {
		return g.responses[len(g.responses)-1], nil
	}
	return g.responses[call], nil
}

// Calls returns how many times Generate has been invoked.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// Prompts returns a copy of the prompts seen so far.
func (g *Generator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.prompts))
	copy(out, g.prompts)
	return out
}
