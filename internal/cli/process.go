package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/call-summary/internal/format"
	"github.com/alnah/call-summary/internal/pipeline"
)

// ProcessCmd creates the process command.
// The env parameter provides injectable dependencies for testing.
func ProcessCmd(env *Env) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Summarize a call recording or transcript",
		Long: `Summarize a phone call from an audio recording or a text transcript.

Audio files are transcribed first and the transcript is saved next to the
upload as <name>.txt. The summary and keyword list are printed to stdout;
progress goes to stderr.

Supported formats: mp3, wav, m4a, flac, webm (audio), txt (text)`,
		Example: `  callsummary process call.mp3
  callsummary process notes.txt
  callsummary process call.m4a --language fr --uploads-dir /tmp/calls`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, env, args[0], opts)
		},
	}

	addRunFlags(cmd, &opts)
	return cmd
}

// addRunFlags registers the flags shared by serve and process.
func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVar(&opts.uploadsDir, "uploads-dir", "", "Directory for uploads and transcripts (default: config uploads-dir)")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Audio language hint (ISO 639-1, e.g. en, fr)")
	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "Transcription prompt (names or terms likely spoken)")
}

// runProcess executes a single pipeline pass from the terminal.
// Validation order: file exists -> format -> size -> config/API key.
func runProcess(cmd *cobra.Command, env *Env, inputPath string, opts runOptions) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	kind, err := pipeline.KindForFile(inputPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(env)
	if err != nil {
		return err
	}

	if info.Size() > cfg.MaxUploadBytes() {
		return fmt.Errorf("%w: %s is %s (limit %s)", ErrFileTooLarge,
			inputPath, format.Size(info.Size()), format.Size(cfg.MaxUploadBytes()))
	}

	p, err := buildPipeline(env, cfg, opts, env.Stderr)
	if err != nil {
		return err
	}

	// Read up front: the input may already live in the uploads directory,
	// and Persist truncates the destination.
	data, err := os.ReadFile(inputPath) // #nosec G304 -- user-specified input file
	if err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}

	// === PIPELINE ===

	res, err := p.Process(ctx, pipeline.Upload{
		Name:    filepath.Base(inputPath),
		Kind:    kind,
		Content: bytes.NewReader(data),
	})
	writePanels(env.Stdout, res)
	if err != nil {
		return err
	}

	if res.Downloadable() {
		_, _ = fmt.Fprintf(env.Stderr, "Transcript saved to %s\n", res.TranscriptPath)
	}
	return nil
}

// writePanels prints whatever sections res holds, in display order.
func writePanels(w io.Writer, res pipeline.Result) {
	var sections []string
	if res.Stage >= pipeline.HasText {
		header := "📜 Transcription / Uploaded Text"
		if res.Duration > 0 {
			header += fmt.Sprintf(" (%s)", format.Duration(res.Duration))
		}
		sections = append(sections, header+"\n\n"+res.Transcript)
	}
	if res.Summary != "" {
		sections = append(sections, "📝 Summary\n\n"+res.Summary)
	}
	if res.Keywords != "" {
		sections = append(sections, "🔑 Keywords\n\n"+res.Keywords)
	}
	if len(sections) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, strings.Join(sections, "\n\n"))
}
