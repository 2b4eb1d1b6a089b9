// Package pipeline runs one upload through persist, transcribe or read,
// summarize and keyword extraction. Steps run sequentially on the caller's
// goroutine; the first failure stops the pass.
package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/call-summary/internal/analyze"
	"github.com/alnah/call-summary/internal/storage"
	"github.com/alnah/call-summary/internal/transcribe"
)

// Upload is a user-supplied file for one pipeline pass.
type Upload struct {
	Name    string
	Kind    Kind
	Content io.Reader
}

// Result holds everything produced by a pass. On failure the fields
// computed before the failing step are set.
type Result struct {
	Kind           Kind
	Stage          Stage // last stage reached
	UploadPath     string
	Transcript     string
	TranscriptPath string // audio only
	Summary        string
	Keywords       string

	// From the verbose transcription response (audio only).
	Language string
	Duration time.Duration
	Words    []transcribe.Word
}

// Downloadable reports whether a transcript file can be offered for download.
func (r Result) Downloadable() bool {
	return r.Kind == Audio && r.TranscriptPath != ""
}

// Pipeline wires the storage, transcription and analysis components.
type Pipeline struct {
	store       *storage.Store
	transcriber transcribe.Transcriber
	summarizer  analyze.Summarizer
	extractor   analyze.KeywordExtractor
	logger      zerolog.Logger
	onStage     func(Stage)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithStageCallback registers fn to be called when each stage starts.
func WithStageCallback(fn func(Stage)) Option {
	return func(p *Pipeline) {
		p.onStage = fn
	}
}

// New creates a Pipeline. All components are required.
func New(store *storage.Store, t transcribe.Transcriber, s analyze.Summarizer, k analyze.KeywordExtractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:       store,
		transcriber: t,
		summarizer:  s,
		extractor:   k,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store returns the upload store.
func (p *Pipeline) Store() *storage.Store {
	return p.store
}

// Process runs a full pass for u. Files written before a failure are kept.
func (p *Pipeline) Process(ctx context.Context, u Upload) (Result, error) {
	res := Result{Kind: u.Kind, Stage: Idle}
	log := p.logger.With().Str("upload", u.Name).Str("kind", u.Kind.String()).Logger()

	if err := u.Kind.Accepts(u.Name); err != nil {
		return res, err
	}

	// === PERSIST ===

	p.enter(&res, Persisting, log)
	if err := p.store.EnsureDir(); err != nil {
		return res, err
	}
	path, err := p.store.Persist(u.Content, u.Name)
	if err != nil {
		return res, err
	}
	res.UploadPath = path

	// === TEXT ===

	switch u.Kind {
	case Audio:
		p.enter(&res, Transcribing, log)
		tr, err := p.transcriber.Transcribe(ctx, path)
		if err != nil {
			return res, err
		}
		res.Transcript = tr.Text
		res.Language = tr.Language
		res.Duration = tr.Duration
		res.Words = tr.Words

		txtPath := storage.TranscriptPath(path)
		if err := p.store.WriteText(txtPath, tr.Text); err != nil {
			return res, err
		}
		res.TranscriptPath = txtPath
	case Text:
		p.enter(&res, Reading, log)
		text, err := p.store.ReadText(path)
		if err != nil {
			return res, err
		}
		res.Transcript = text
	}

	p.enter(&res, HasText, log)
	if strings.TrimSpace(res.Transcript) == "" {
		log.Warn().Msg("empty transcript, forwarding to summary anyway")
	}

	// === ANALYZE ===

	p.enter(&res, Summarizing, log)
	summary, err := p.summarizer.Summarize(ctx, res.Transcript)
	if err != nil {
		return res, err
	}
	res.Summary = summary

	p.enter(&res, ExtractingKeywords, log)
	keywords, err := p.extractor.ExtractKeywords(ctx, res.Transcript)
	if err != nil {
		return res, err
	}
	res.Keywords = keywords

	p.enter(&res, Complete, log)
	return res, nil
}

// enter records the stage, logs it and notifies the callback.
func (p *Pipeline) enter(res *Result, s Stage, log zerolog.Logger) {
	res.Stage = s
	log.Debug().Str("stage", s.String()).Msg("pipeline stage")
	if p.onStage != nil {
		p.onStage(s)
	}
}
