package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/call-summary/internal/log"
	"github.com/alnah/call-summary/internal/web"
)

// ServeCmd creates the serve command.
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var (
		opts runOptions
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web upload form",
		Long: `Start the web form for uploading call recordings and transcripts.

The server runs until interrupted, then drains in-flight requests.`,
		Example: `  callsummary serve
  callsummary serve --addr 127.0.0.1:8080 --uploads-dir /srv/calls`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, env, addr, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: config addr)")
	addRunFlags(cmd, &opts)
	return cmd
}

// runServe builds the pipeline and blocks serving HTTP.
func runServe(cmd *cobra.Command, env *Env, addr string, opts runOptions) error {
	cfg, err := loadConfig(env)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Addr
	}

	p, err := buildPipeline(env, cfg, opts, nil)
	if err != nil {
		return err
	}
	if err := p.Store().EnsureDir(); err != nil {
		return err
	}

	srv := web.New(p,
		web.WithMaxUpload(cfg.MaxUploadBytes()),
		web.WithDevelopment(log.IsDevelopment(env.Getenv)),
	)

	_, _ = fmt.Fprintf(env.Stderr, "Serving on %s (uploads in %s)\n", addr, p.Store().Dir())
	return env.ServerRunner.ListenAndServe(cmd.Context(), srv, addr)
}
