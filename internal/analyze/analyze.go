// Package analyze turns call transcripts into a sales summary and a keyword
// list using OpenAI's chat completion API. Both tasks use the same model,
// temperature and system prompt; they differ only in the user prompt.
package analyze

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/call-summary/internal/apierr"
	"github.com/alnah/call-summary/internal/template"
)

// Default chat configuration.
const (
	DefaultModel       = openai.GPT4o
	DefaultTemperature = float32(0.2)

	DefaultCompany       = "Sunwire Inc."
	DefaultCompanyDomain = "sunwire.ca"
)

// Summarizer produces a structured sales-call summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// KeywordExtractor produces a comma-separated keyword list.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, transcript string) (string, error)
}

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Summarizer       = (*Analyzer)(nil)
	_ KeywordExtractor = (*Analyzer)(nil)
	_ chatCompleter    = (*openai.Client)(nil)
)

// Analyzer implements Summarizer and KeywordExtractor over one chat client.
// Each call is a single request; failures are classified, not retried,
// unless WithRetry is set.
type Analyzer struct {
	client        chatCompleter
	model         string
	temperature   float32
	company       string
	companyDomain string
	retry         apierr.RetryConfig
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(a *Analyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithCompany sets the company the sales representative works for and its
// email domain. An empty domain drops the domain example from the prompt.
func WithCompany(name, domain string) Option {
	return func(a *Analyzer) {
		if name != "" {
			a.company = name
		}
		a.companyDomain = domain
	}
}

// WithRetry enables retries of transient failures.
func WithRetry(cfg apierr.RetryConfig) Option {
	return func(a *Analyzer) {
		a.retry = cfg
	}
}

// withChatCompleter replaces the API client (tests only).
func withChatCompleter(cc chatCompleter) Option {
	return func(a *Analyzer) {
		a.client = cc
	}
}

// New creates an Analyzer with the given client.
func New(client *openai.Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:        client,
		model:         DefaultModel,
		temperature:   DefaultTemperature,
		company:       DefaultCompany,
		companyDomain: DefaultCompanyDomain,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// data builds the template input for a transcript.
func (a *Analyzer) data(transcript string) template.Data {
	return template.Data{
		Company:       a.company,
		CompanyDomain: a.companyDomain,
		Transcript:    transcript,
	}
}

// complete sends a single-turn prompt and returns the first choice verbatim.
func (a *Analyzer) complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: a.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: template.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	return apierr.Call(ctx, a.retry, func(ctx context.Context) (string, error) {
		resp, err := a.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrNoChoices
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// render wraps template.Render with the analyzer's company settings.
func (a *Analyzer) render(name, transcript string) (string, error) {
	prompt, err := template.Render(name, a.data(transcript))
	if err != nil {
		return "", fmt.Errorf("build %s prompt: %w", name, err)
	}
	return prompt, nil
}
