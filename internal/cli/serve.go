// Package cli provides the command-line interface for satchel.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/satchel-dev/satchel/internal/config"
	"github.com/satchel-dev/satchel/internal/evaluator"
	"github.com/satchel-dev/satchel/internal/signal"
	"github.com/satchel-dev/satchel/internal/tui"
)

// ServeFlags holds flags specific to the serve command.
type ServeFlags struct {
	// Bind overrides server.bind from config.
	Bind string
	// ResultsDir overrides server.results_dir from config.
	ResultsDir string
	// WithVerify enables the /verify endpoint using the configured
	// verification settings.
	WithVerify bool
	// Mode overrides verify.mode when /verify is enabled.
	Mode string
	// KeyPath overrides verify.public_key_path when /verify is enabled.
	KeyPath string
}

// AddServeCommand adds the serve command to the root command.
func AddServeCommand(root *cobra.Command) {
	root.AddCommand(newServeCmd())
}

func newServeCmd() *cobra.Command {
	flags := &ServeFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local mock evaluation server",
		Long: `Run the local evaluation server. The server accepts deployment
notifications on /evaluate/{static,dynamic,llm}, answers /health, lists
stored results on /results, and exposes Prometheus metrics on /metrics.

With --with-verify the server also verifies signed request envelopes
posted to /verify.

Examples:
  satchel serve
  satchel serve --bind 127.0.0.1:9000
  satchel serve --with-verify --key-path keys/issuer_public.pem`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, os.Stdout, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Bind, "bind", "", "listen address")
	cmd.Flags().StringVar(&flags.ResultsDir, "results-dir", "", "directory for evaluation results")
	cmd.Flags().BoolVar(&flags.WithVerify, "with-verify", false, "enable the /verify endpoint")
	cmd.Flags().StringVar(&flags.Mode, "mode", "", "verification mode for /verify (ed25519|stub)")
	cmd.Flags().StringVar(&flags.KeyPath, "key-path", "", "issuer public key for /verify (PEM)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *ServeFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	overrides := &config.Config{}
	overrides.Server.Bind = flags.Bind
	overrides.Server.ResultsDir = flags.ResultsDir

	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return err
	}

	if cfg.Server.ResultsDir == "" {
		dir, err := config.GlobalResultsDir()
		if err != nil {
			return err
		}
		cfg.Server.ResultsDir = dir
	}

	var opts []evaluator.ServerOption
	if flags.WithVerify {
		verifier, err := buildVerifier(cfg, flags.Mode, flags.KeyPath)
		if err != nil {
			return err
		}
		opts = append(opts, evaluator.WithVerifier(verifier))
	}

	srv := evaluator.NewServer(cfg.Server, logger, opts...)

	handler := signal.NewHandler(ctx)
	defer handler.Stop()

	out.Info("Evaluation server listening on " + cfg.Server.Bind)

	g, gctx := errgroup.WithContext(handler.Context())
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	err = g.Wait()

	select {
	case <-handler.Interrupted():
		logger.Info().Msg("shutdown requested, server stopped")
		return nil
	default:
	}
	return err
}
