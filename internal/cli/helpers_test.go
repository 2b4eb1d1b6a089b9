package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/alnah/call-summary/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// ---------------------------------------------------------------------------
// Test environment
// ---------------------------------------------------------------------------

type testMocks struct {
	stdout      *syncBuffer
	stderr      *syncBuffer
	config      *mockConfigLoader
	transcriber *mockTranscriber
	tFactory    *mockTranscriberFactory
	analyzer    *mockAnalyzer
	aFactory    *mockAnalyzerFactory
	runner      *mockServerRunner
}

func newTestMocks() *testMocks {
	tr := &mockTranscriber{}
	an := &mockAnalyzer{}
	return &testMocks{
		stdout:      &syncBuffer{},
		stderr:      &syncBuffer{},
		config:      &mockConfigLoader{},
		transcriber: tr,
		tFactory:    &mockTranscriberFactory{transcriber: tr},
		analyzer:    an,
		aFactory:    &mockAnalyzerFactory{analyzer: an},
		runner:      &mockServerRunner{},
	}
}

type testEnvOption func(*Env)

// testEnv builds an Env wired to fresh mocks. Options run after defaults.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	m := newTestMocks()
	env := &Env{
		Stdout:             m.stdout,
		Stderr:             m.stderr,
		Getenv:             staticEnv(map[string]string{EnvAPIKey: "sk-test"}),
		ConfigLoader:       m.config,
		TranscriberFactory: m.tFactory,
		AnalyzerFactory:    m.aFactory,
		ServerRunner:       m.runner,
	}
	for _, opt := range opts {
		opt(env)
	}
	return env, m
}

func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// testConfig returns defaults with logging disabled and uploads in dir.
func testConfig(dir string) config.Config {
	return config.Config{
		UploadsDir:    dir,
		Addr:          config.DefaultAddr,
		Company:       config.DefaultCompany,
		CompanyDomain: config.DefaultCompanyDomain,
		LogLevel:      "disabled",
		MaxUploadMB:   config.DefaultMaxUploadMB,
	}
}

func configWithUploadsDir(dir string) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func() (config.Config, error) {
			return testConfig(dir), nil
		},
	}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

// execute runs cmd with args and returns its error.
func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.ExecuteContext(context.Background())
}
