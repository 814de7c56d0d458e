// Package cli provides the command-line interface for satchel.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
	"github.com/satchel-dev/satchel/internal/notify"
	"github.com/satchel-dev/satchel/internal/state"
	"github.com/satchel-dev/satchel/internal/tui"
)

// NotifyFlags holds flags specific to the notify command.
type NotifyFlags struct {
	// Endpoint overrides notify.endpoint from config.
	Endpoint string
	// SHA is the deployed commit hash.
	SHA string
	// PagesURL is the public Pages URL.
	PagesURL string
	// Force records the notification locally without prompting when
	// delivery fails.
	Force bool
}

// AddNotifyCommand adds the notify command to the root command.
func AddNotifyCommand(root *cobra.Command) {
	root.AddCommand(newNotifyCmd())
}

func newNotifyCmd() *cobra.Command {
	flags := &NotifyFlags{}

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send the commit SHA and Pages URL to the evaluator",
		Long: `Notify the evaluator endpoint with the deployed commit SHA and the
GitHub Pages URL. The payload of the last attempt is stored under
.satchel/state/last_notify.json so failed deliveries can be retried.

Examples:
  satchel notify --sha abc123 --pages-url https://alice.github.io/webapp/
  satchel notify --endpoint http://127.0.0.1:8088/evaluate/static --sha abc123 --pages-url https://alice.github.io/webapp/`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotify(cmd.Context(), cmd, os.Stdout, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", "", "evaluator notification endpoint")
	cmd.Flags().StringVar(&flags.SHA, "sha", "", "deployed commit SHA")
	cmd.Flags().StringVar(&flags.PagesURL, "pages-url", "", "GitHub Pages URL")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "record locally without prompting when delivery fails")
	_ = cmd.MarkFlagRequired("sha")
	_ = cmd.MarkFlagRequired("pages-url")

	return cmd
}

func runNotify(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *NotifyFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cfg := loadConfigOrDefaults(ctx)

	endpoint := cfg.Notify.Endpoint
	if flags.Endpoint != "" {
		endpoint = flags.Endpoint
	}
	if endpoint == "" {
		return satchelerrors.NewExitCode2Error(
			fmt.Errorf("no endpoint configured: set notify.endpoint or pass --endpoint: %w", satchelerrors.ErrNotifyFailed))
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	store := state.NewStore(cwd)

	payload := notify.Payload{SHA: flags.SHA, PagesURL: flags.PagesURL}
	record := notify.Record{Endpoint: endpoint, SHA: flags.SHA, PagesURL: flags.PagesURL}

	client := notify.NewClient(endpoint, cfg.Notify.Timeout)
	notifyCtx := logger.WithContext(ctx)
	response, err := client.Send(notifyCtx, payload)
	if err == nil {
		if saveErr := store.SaveLastNotify(ctx, record); saveErr != nil {
			logger.Warn().Err(saveErr).Msg("failed to record notification")
		}
		if outputFormat == tui.FormatJSON {
			return out.JSON(map[string]any{"ok": true, "endpoint": endpoint, "response": response})
		}
		out.Panel(fmt.Sprintf("Notified %s\nResponse: %v", endpoint, response))
		return nil
	}

	logger.Warn().Err(err).Str("endpoint", endpoint).Msg("notification delivery failed")
	out.Warning(fmt.Sprintf("Notification attempt failed: %v", err))

	proceed := flags.Force
	if !proceed {
		proceed, err = confirmRecordLocally(endpoint)
		if err != nil {
			return err
		}
	}
	if !proceed {
		return fmt.Errorf("notification not delivered: %w", satchelerrors.ErrNotifyFailed)
	}

	if err := store.SaveLastNotify(ctx, record); err != nil {
		return err
	}

	if outputFormat == tui.FormatJSON {
		return out.JSON(map[string]any{"ok": false, "recorded": store.LastNotifyPath()})
	}
	out.Success(fmt.Sprintf("Saved %s", store.LastNotifyPath()))
	return nil
}

// createNotifyConfirmForm is the default factory for the local-record
// confirmation form. Overridable in tests to inject mock forms.
//
//nolint:gochecknoglobals // Test injection point - standard Go testing pattern
var createNotifyConfirmForm = defaultCreateNotifyConfirmForm

// formRunner is an interface that matches huh.Form's Run method.
type formRunner interface {
	Run() error
}

// defaultCreateNotifyConfirmForm creates the confirmation form shown when
// delivery fails.
func defaultCreateNotifyConfirmForm(endpoint string, confirm *bool) formRunner {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delivery to %s failed. Mark as notified locally?", endpoint)).
				Description("The payload is saved so the notification can be retried later.").
				Affirmative("Yes, record locally").
				Negative("No, fail").
				Value(confirm),
		),
	)
}

// confirmRecordLocally prompts whether to record the notification locally.
// Non-interactive sessions must pass --force instead.
func confirmRecordLocally(endpoint string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, satchelerrors.NewExitCode2Error(satchelerrors.ErrNonInteractiveMode)
	}

	var confirm bool
	form := createNotifyConfirmForm(endpoint, &confirm)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}
