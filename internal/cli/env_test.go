package cli

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

func TestNewEnv(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		env := DefaultEnv()
		if env.Stdout != os.Stdout || env.Stderr != os.Stderr {
			t.Error("default writers should be os.Stdout/os.Stderr")
		}
		if env.Getenv == nil || env.ConfigLoader == nil || env.TranscriberFactory == nil ||
			env.AnalyzerFactory == nil || env.ServerRunner == nil {
			t.Error("DefaultEnv left a dependency nil")
		}
	})

	t.Run("options override defaults", func(t *testing.T) {
		t.Parallel()
		var out, errOut bytes.Buffer
		runner := &mockServerRunner{}
		env := NewEnv(
			WithStdout(&out),
			WithStderr(&errOut),
			WithGetenv(staticEnv(nil)),
			WithConfigLoader(&mockConfigLoader{}),
			WithTranscriberFactory(&mockTranscriberFactory{}),
			WithAnalyzerFactory(&mockAnalyzerFactory{}),
			WithServerRunner(runner),
		)
		if env.Stdout != &out || env.Stderr != &errOut {
			t.Error("writers not overridden")
		}
		if env.ServerRunner != runner {
			t.Error("runner not overridden")
		}
	})
}

func TestOpenAIConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		env, _ := testEnv(func(e *Env) { e.Getenv = staticEnv(nil) })
		if _, err := env.openAIConfig(); !errors.Is(err, ErrAPIKeyMissing) {
			t.Errorf("error = %v, want ErrAPIKeyMissing", err)
		}
	})

	t.Run("key and base url", func(t *testing.T) {
		t.Parallel()
		env, _ := testEnv(func(e *Env) {
			e.Getenv = staticEnv(map[string]string{EnvAPIKey: "sk", EnvBaseURL: "http://proxy/v1"})
		})
		ai, err := env.openAIConfig()
		if err != nil {
			t.Fatalf("openAIConfig() error = %v", err)
		}
		if ai != (OpenAIConfig{APIKey: "sk", BaseURL: "http://proxy/v1"}) {
			t.Errorf("openAIConfig() = %+v", ai)
		}
		if ai.Client() == nil {
			t.Error("Client() returned nil")
		}
	})
}
