package analyze_test

// Notes:
// - Black-box tests via package analyze_test.
// - Unit tests inject a mock chatCompleter through export_test.go.
// - TestAnalyzer_Wire drives a real *openai.Client against httptest to check
//   the JSON request body.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/call-summary/internal/analyze"
	"github.com/alnah/call-summary/internal/apierr"
	"github.com/alnah/call-summary/internal/template"
)

const callTranscript = "Hello, this is Jane from Acme calling about invoice 123."

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockChatCompleter struct {
	mu       sync.Mutex
	requests []openai.ChatCompletionRequest
	content  string
	noChoice bool
	err      error
}

func (m *mockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	if m.noChoice {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.content}},
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "second choice"}},
		},
	}, nil
}

func (m *mockChatCompleter) Requests() []openai.ChatCompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), m.requests...)
}

// ---------------------------------------------------------------------------
// TestSummarize
// ---------------------------------------------------------------------------

func TestSummarize(t *testing.T) {
	t.Parallel()

	mock := &mockChatCompleter{content: "Client Information:\n- Jane"}
	a := analyze.NewTestAnalyzer(mock)

	got, err := a.Summarize(context.Background(), callTranscript)
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	if got != "Client Information:\n- Jane" {
		t.Errorf("Summarize() = %q, want first choice verbatim", got)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	req := reqs[0]
	if req.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", req.Model)
	}
	if req.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", req.Temperature)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[0].Content != template.SystemPrompt {
		t.Errorf("system message = %+v", req.Messages[0])
	}
	if req.Messages[1].Role != openai.ChatMessageRoleUser {
		t.Errorf("second message role = %q, want user", req.Messages[1].Role)
	}

	want, err := a.SummaryPrompt(callTranscript)
	if err != nil {
		t.Fatal(err)
	}
	if req.Messages[1].Content != want {
		t.Error("user message is not the rendered summary prompt")
	}
	if !strings.Contains(req.Messages[1].Content, callTranscript) {
		t.Error("user message does not embed transcript")
	}
}

func TestSummarize_Company(t *testing.T) {
	t.Parallel()

	mock := &mockChatCompleter{}
	a := analyze.NewTestAnalyzer(mock, analyze.WithCompany("Acme Corp", "acme.example"))

	prompt, err := a.SummaryPrompt(callTranscript)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, "Acme Corp") || !strings.Contains(prompt, "acme.example") {
		t.Errorf("prompt does not use configured company:\n%s", prompt)
	}
	if strings.Contains(prompt, analyze.DefaultCompany) {
		t.Error("prompt still mentions default company")
	}
}

// ---------------------------------------------------------------------------
// TestExtractKeywords
// ---------------------------------------------------------------------------

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	mock := &mockChatCompleter{content: "keyword\ninvoice, Acme, Jane"}
	a := analyze.NewTestAnalyzer(mock)

	got, err := a.ExtractKeywords(context.Background(), callTranscript)
	if err != nil {
		t.Fatalf("ExtractKeywords() unexpected error: %v", err)
	}
	if got != "keyword\ninvoice, Acme, Jane" {
		t.Errorf("ExtractKeywords() = %q, want raw response", got)
	}

	req := mock.Requests()[0]
	if req.Model != "gpt-4o" || req.Temperature != 0.2 {
		t.Errorf("model/temperature = %q/%v, want gpt-4o/0.2", req.Model, req.Temperature)
	}
	user := req.Messages[1].Content
	if !strings.Contains(user, callTranscript) {
		t.Error("keyword prompt does not embed transcript")
	}
	if !strings.Contains(user, "keyword") {
		t.Error("keyword prompt missing the word keyword")
	}
}

// ---------------------------------------------------------------------------
// TestAnalyzer_Errors
// ---------------------------------------------------------------------------

func TestAnalyzer_Errors(t *testing.T) {
	t.Parallel()

	t.Run("service error is classified and not retried", func(t *testing.T) {
		t.Parallel()

		mock := &mockChatCompleter{err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "Rate limit reached"}}
		a := analyze.NewTestAnalyzer(mock)

		_, err := a.Summarize(context.Background(), callTranscript)
		if !errors.Is(err, apierr.ErrRateLimit) {
			t.Errorf("Summarize() = %v, want ErrRateLimit", err)
		}
		if !apierr.IsService(err) {
			t.Error("IsService() = false, want true")
		}
		if n := len(mock.Requests()); n != 1 {
			t.Errorf("requests = %d, want 1", n)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		t.Parallel()

		a := analyze.NewTestAnalyzer(&mockChatCompleter{noChoice: true})
		if _, err := a.ExtractKeywords(context.Background(), callTranscript); !errors.Is(err, analyze.ErrNoChoices) {
			t.Errorf("ExtractKeywords() = %v, want ErrNoChoices", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestAnalyzer_Wire - request body seen by the API
// ---------------------------------------------------------------------------

func TestAnalyzer_Wire(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "gpt-4o",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": "ok"}}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	a := analyze.New(openai.NewClientWithConfig(cfg))

	got, err := a.Summarize(context.Background(), callTranscript)
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("Summarize() = %q, want %q", got, "ok")
	}

	mu.Lock()
	defer mu.Unlock()
	if body["model"] != "gpt-4o" {
		t.Errorf("model = %v, want gpt-4o", body["model"])
	}
	if temp, _ := body["temperature"].(float64); temp < 0.19 || temp > 0.21 {
		t.Errorf("temperature = %v, want 0.2", body["temperature"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want 2 entries", body["messages"])
	}
}
