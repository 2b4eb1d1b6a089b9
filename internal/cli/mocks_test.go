package cli

import (
	"context"
	"sync"

	"github.com/alnah/call-summary/internal/analyze"
	"github.com/alnah/call-summary/internal/config"
	"github.com/alnah/call-summary/internal/transcribe"
	"github.com/alnah/call-summary/internal/web"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return testConfig(""), nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock TranscriberFactory + Transcriber
// ---------------------------------------------------------------------------

type mockTranscriberFactory struct {
	transcriber *mockTranscriber

	mu    sync.Mutex
	calls []OpenAIConfig
	opts  int
}

func (f *mockTranscriberFactory) NewTranscriber(ai OpenAIConfig, opts ...transcribe.Option) transcribe.Transcriber {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ai)
	f.opts = len(opts)
	return f.transcriber
}

func (f *mockTranscriberFactory) Calls() []OpenAIConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]OpenAIConfig(nil), f.calls...)
}

type mockTranscriber struct {
	TranscribeFunc func(ctx context.Context, path string) (transcribe.Result, error)

	mu    sync.Mutex
	paths []string
}

func (m *mockTranscriber) Transcribe(ctx context.Context, path string) (transcribe.Result, error) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, path)
	}
	return transcribe.Result{Text: "mock transcript"}, nil
}

func (m *mockTranscriber) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// ---------------------------------------------------------------------------
// Mock AnalyzerFactory + Analyzer
// ---------------------------------------------------------------------------

type mockAnalyzerFactory struct {
	analyzer *mockAnalyzer

	mu    sync.Mutex
	calls int
}

func (f *mockAnalyzerFactory) NewAnalyzer(_ OpenAIConfig, _ ...analyze.Option) Analyzer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.analyzer
}

func (f *mockAnalyzerFactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type mockAnalyzer struct {
	SummarizeFunc func(ctx context.Context, text string) (string, error)
	KeywordsFunc  func(ctx context.Context, text string) (string, error)

	mu    sync.Mutex
	texts []string
}

func (m *mockAnalyzer) Summarize(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text)
	}
	return "Client Information: mock", nil
}

func (m *mockAnalyzer) ExtractKeywords(ctx context.Context, text string) (string, error) {
	if m.KeywordsFunc != nil {
		return m.KeywordsFunc(ctx, text)
	}
	return "keyword\nmock, test", nil
}

func (m *mockAnalyzer) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// ---------------------------------------------------------------------------
// Mock ServerRunner
// ---------------------------------------------------------------------------

type mockServerRunner struct {
	Err error

	mu   sync.Mutex
	addr string
	srv  *web.Server
}

func (m *mockServerRunner) ListenAndServe(_ context.Context, srv *web.Server, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addr = addr
	m.srv = srv
	return m.Err
}

func (m *mockServerRunner) Last() (*web.Server, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.srv, m.addr
}
