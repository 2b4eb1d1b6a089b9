package analyze

import (
	"context"
	"fmt"

	"github.com/alnah/call-summary/internal/template"
)

// KeywordsPrompt returns the user prompt sent for a transcript.
func (a *Analyzer) KeywordsPrompt(transcript string) (string, error) {
	return a.render(template.Keywords, transcript)
}

// ExtractKeywords returns the raw keyword answer, typically a "keyword"
// line followed by a comma-separated list. It is not parsed.
func (a *Analyzer) ExtractKeywords(ctx context.Context, transcript string) (string, error) {
	prompt, err := a.KeywordsPrompt(transcript)
	if err != nil {
		return "", err
	}
	keywords, err := a.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("keyword extraction failed: %w", err)
	}
	return keywords, nil
}
