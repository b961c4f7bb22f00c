// Package cli defines the Cobra command for one-shot consultations from a
// terminal. It drives the same consultation services as the bot.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/set-night/pediabot/internal/config"
	"github.com/set-night/pediabot/internal/domain"
	"github.com/set-night/pediabot/internal/service"
)

var version = "dev" // set via ldflags at build time

// ErrCompletionFailed is returned after the diagnostic has been printed.
var ErrCompletionFailed = errors.New("completion failed")

type options struct {
	key        string
	symptoms   string
	imagePath  string
	imageOnly  bool
	noProgress bool
	verbose    bool
}

// NewRootCmd builds the consult command. completer may be nil, in which case
// the OpenAI client from the configuration is used.
func NewRootCmd(completer service.Completer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "consult",
		Short: "Children's health consultation from the terminal",
		Long: `Consult sends your child's symptoms and/or a photo to the completion
service with the same instructions the bot uses and prints the answer.

The API key is taken from --key or OPENAI_API_KEY.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsult(cmd, opts, completer)
		},
	}

	cmd.Flags().StringVar(&opts.key, "key", "", "OpenAI API key (default $OPENAI_API_KEY)")
	cmd.Flags().StringVarP(&opts.symptoms, "symptoms", "s", "", "Symptoms of the child")
	cmd.Flags().StringVarP(&opts.imagePath, "image", "i", "", "Path to a JPEG or PNG photo")
	cmd.Flags().BoolVar(&opts.imageOnly, "image-only", false, "Analyze the image only")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Do not show the progress bar")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	return cmd
}

func runConsult(cmd *cobra.Command, opts *options, completer service.Completer) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key := opts.key
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}

	session := domain.NewSession(0)
	if err := service.Authenticate(session, key); err != nil {
		return fmt.Errorf("api key: %w", err)
	}

	var image []byte
	if opts.imagePath != "" {
		image, err = os.ReadFile(opts.imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
	}

	mode := domain.ModeCombined
	if opts.imageOnly {
		mode = domain.ModeImageOnly
	}

	if completer == nil {
		completer = service.NewOpenAICompleter(cfg)
	}
	showProgress := cfg.ProgressEnabled && !opts.noProgress
	consult := service.NewConsultService(
		service.NewComposer(cfg),
		service.NewOrchestrator(completer, showProgress),
	)

	var progress service.ProgressFunc
	if showProgress {
		progress = progressPrinter(cmd.ErrOrStderr())
	}

	result, err := consult.Consult(cmd.Context(), session, opts.symptoms, image, mode, progress)
	if progress != nil {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Assistant.Content)
	if result.Reply.Failed {
		return ErrCompletionFailed
	}
	return nil
}

func progressPrinter(w io.Writer) service.ProgressFunc {
	return func(percent int) {
		fmt.Fprintf(w, "\r%s", service.ProgressBar(percent))
	}
}

// Execute runs the root command. Called from main.
func Execute(ctx context.Context) {
	if err := NewRootCmd(nil).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
