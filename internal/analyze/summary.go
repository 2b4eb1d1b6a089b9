package analyze

import (
	"context"
	"fmt"

	"github.com/alnah/call-summary/internal/template"
)

// SummaryPrompt returns the user prompt sent for a transcript.
func (a *Analyzer) SummaryPrompt(transcript string) (string, error) {
	return a.render(template.Summary, transcript)
}

// Summarize returns the model's summary of the call.
// The four sections asked for by the prompt are not validated.
func (a *Analyzer) Summarize(ctx context.Context, transcript string) (string, error) {
	prompt, err := a.SummaryPrompt(transcript)
	if err != nil {
		return "", err
	}
	summary, err := a.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summary failed: %w", err)
	}
	return summary, nil
}
