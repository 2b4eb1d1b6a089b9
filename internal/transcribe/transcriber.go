// Package transcribe converts call recordings to text using OpenAI's
// transcription API with word-level timestamps.
package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/call-summary/internal/apierr"
)

// ModelWhisper1 is the general-purpose speech model used for calls.
const ModelWhisper1 = openai.Whisper1

// Word is a single recognized word with its position in the audio.
type Word struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// Result holds a verbose transcription response.
// Text is the flattened transcript; the other fields are informational.
type Result struct {
	Text     string
	Language string
	Duration time.Duration
	Words    []Word
}

// Transcriber transcribes audio files to text.
type Transcriber interface {
	// Transcribe submits the audio file at audioPath in a single request.
	Transcribe(ctx context.Context, audioPath string) (Result, error)
}

// audioTranscriber is an internal interface for OpenAI audio transcription.
// *openai.Client implements this implicitly.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Transcriber      = (*OpenAITranscriber)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAITranscriber transcribes audio using OpenAI's transcription API.
// By default a failed request is not retried.
type OpenAITranscriber struct {
	client   audioTranscriber
	model    string
	prompt   string
	language string
	retry    apierr.RetryConfig
}

// Option configures an OpenAITranscriber.
type Option func(*OpenAITranscriber)

// WithRetry enables retries of transient failures (rate limits, timeouts, 5xx).
func WithRetry(cfg apierr.RetryConfig) Option {
	return func(t *OpenAITranscriber) {
		t.retry = cfg
	}
}

// WithPrompt provides context to improve accuracy, such as product names
// or the company name spoken on the call.
func WithPrompt(prompt string) Option {
	return func(t *OpenAITranscriber) {
		t.prompt = prompt
	}
}

// WithLanguage sets the ISO 639-1 audio language. Empty means auto-detect.
func WithLanguage(code string) Option {
	return func(t *OpenAITranscriber) {
		t.language = code
	}
}

// withAudioTranscriber replaces the API client (tests only).
func withAudioTranscriber(c audioTranscriber) Option {
	return func(t *OpenAITranscriber) {
		t.client = c
	}
}

// NewOpenAITranscriber creates a new OpenAITranscriber.
// The client is injected so one *openai.Client can serve every component.
func NewOpenAITranscriber(client *openai.Client, opts ...Option) *OpenAITranscriber {
	t := &OpenAITranscriber{
		client: client,
		model:  ModelWhisper1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe uploads the file and returns the verbose transcription.
// Silent audio may yield an empty Text; it is returned as-is.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
		},
		Prompt:   t.prompt,
		Language: t.language,
	}

	resp, err := apierr.Call(ctx, t.retry, func(ctx context.Context) (openai.AudioResponse, error) {
		return t.client.CreateTranscription(ctx, req)
	})
	if err != nil {
		return Result{}, fmt.Errorf("transcription failed: %w", err)
	}

	return toResult(resp), nil
}

// toResult converts the go-openai response, turning float seconds into durations.
func toResult(resp openai.AudioResponse) Result {
	r := Result{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: seconds(resp.Duration),
	}
	if len(resp.Words) > 0 {
		r.Words = make([]Word, 0, len(resp.Words))
		for _, w := range resp.Words {
			r.Words = append(r.Words, Word{
				Text:  strings.TrimSpace(w.Word),
				Start: seconds(w.Start),
				End:   seconds(w.End),
			})
		}
	}
	return r
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
