package cli

import (
	"fmt"
	"io"

	"github.com/alnah/call-summary/internal/analyze"
	"github.com/alnah/call-summary/internal/apierr"
	"github.com/alnah/call-summary/internal/config"
	"github.com/alnah/call-summary/internal/lang"
	"github.com/alnah/call-summary/internal/log"
	"github.com/alnah/call-summary/internal/pipeline"
	"github.com/alnah/call-summary/internal/storage"
	"github.com/alnah/call-summary/internal/transcribe"
)

// runOptions are the flags shared by serve and process.
type runOptions struct {
	uploadsDir string
	language   string
	prompt     string
}

// loadConfig loads configuration and applies the log level.
func loadConfig(env *Env) (config.Config, error) {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return cfg, err
	}
	log.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// buildPipeline wires storage, transcription and analysis from cfg.
// Validation order: language -> API key.
func buildPipeline(env *Env, cfg config.Config, opts runOptions, progress io.Writer) (*pipeline.Pipeline, error) {
	language, err := lang.Parse(opts.language)
	if err != nil {
		return nil, err
	}

	ai, err := env.openAIConfig()
	if err != nil {
		return nil, err
	}

	uploadsDir := cfg.UploadsDir
	if opts.uploadsDir != "" {
		uploadsDir = config.ExpandPath(opts.uploadsDir)
	}

	retry := apierr.RetryConfig{MaxRetries: cfg.MaxRetries}

	t := env.TranscriberFactory.NewTranscriber(ai,
		transcribe.WithRetry(retry),
		transcribe.WithLanguage(language),
		transcribe.WithPrompt(opts.prompt),
	)
	a := env.AnalyzerFactory.NewAnalyzer(ai,
		analyze.WithCompany(cfg.Company, cfg.CompanyDomain),
		analyze.WithRetry(retry),
	)

	pOpts := []pipeline.Option{pipeline.WithLogger(log.Logger())}
	if progress != nil {
		pOpts = append(pOpts, pipeline.WithStageCallback(func(s pipeline.Stage) {
			if msg := s.Busy(); msg != "" {
				_, _ = fmt.Fprintln(progress, msg)
			}
		}))
	}

	return pipeline.New(storage.New(uploadsDir), t, a, a, pOpts...), nil
}
