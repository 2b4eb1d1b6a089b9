package cli

import (
	"context"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/call-summary/internal/analyze"
	"github.com/alnah/call-summary/internal/config"
	"github.com/alnah/call-summary/internal/transcribe"
	"github.com/alnah/call-summary/internal/web"
)

// Environment variables read outside the config file.
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader       ConfigLoader
	TranscriberFactory TranscriberFactory
	AnalyzerFactory    AnalyzerFactory
	ServerRunner       ServerRunner
}

// OpenAIConfig carries the credential and endpoint for the AI clients.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty for the default endpoint
}

// Client builds a go-openai client for c.
func (c OpenAIConfig) Client() *openai.Client {
	cfg := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// Analyzer produces the summary and keyword list for a transcript.
type Analyzer interface {
	analyze.Summarizer
	analyze.KeywordExtractor
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// TranscriberFactory creates transcribers for audio-to-text conversion.
type TranscriberFactory interface {
	NewTranscriber(ai OpenAIConfig, opts ...transcribe.Option) transcribe.Transcriber
}

// AnalyzerFactory creates the summary and keyword components.
type AnalyzerFactory interface {
	NewAnalyzer(ai OpenAIConfig, opts ...analyze.Option) Analyzer
}

// ServerRunner runs the web front-end until ctx is done.
type ServerRunner interface {
	ListenAndServe(ctx context.Context, srv *web.Server, addr string) error
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// WithAnalyzerFactory sets the analyzer factory.
func WithAnalyzerFactory(f AnalyzerFactory) EnvOption {
	return func(e *Env) {
		e.AnalyzerFactory = f
	}
}

// WithServerRunner sets the server runner.
func WithServerRunner(r ServerRunner) EnvOption {
	return func(e *Env) {
		e.ServerRunner = r
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		ConfigLoader:       &defaultConfigLoader{},
		TranscriberFactory: &defaultTranscriberFactory{},
		AnalyzerFactory:    &defaultAnalyzerFactory{},
		ServerRunner:       &defaultServerRunner{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// openAIConfig reads the credential from the environment.
func (e *Env) openAIConfig() (OpenAIConfig, error) {
	key := e.Getenv(EnvAPIKey)
	if key == "" {
		return OpenAIConfig{}, ErrAPIKeyMissing
	}
	return OpenAIConfig{APIKey: key, BaseURL: e.Getenv(EnvBaseURL)}, nil
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultTranscriberFactory implements TranscriberFactory using OpenAI.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(ai OpenAIConfig, opts ...transcribe.Option) transcribe.Transcriber {
	return transcribe.NewOpenAITranscriber(ai.Client(), opts...)
}

// defaultAnalyzerFactory implements AnalyzerFactory using OpenAI.
type defaultAnalyzerFactory struct{}

func (defaultAnalyzerFactory) NewAnalyzer(ai OpenAIConfig, opts ...analyze.Option) Analyzer {
	return analyze.New(ai.Client(), opts...)
}

// defaultServerRunner listens on a TCP address.
type defaultServerRunner struct{}

func (defaultServerRunner) ListenAndServe(ctx context.Context, srv *web.Server, addr string) error {
	return srv.ListenAndServe(ctx, addr)
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
	_ AnalyzerFactory    = (*defaultAnalyzerFactory)(nil)
	_ ServerRunner       = (*defaultServerRunner)(nil)
	_ Analyzer           = (*analyze.Analyzer)(nil)
)
