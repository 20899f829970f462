package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resume-feedback/internal/bootstrap"
	"resume-feedback/internal/extract"
	"resume-feedback/internal/feedback"
	"resume-feedback/internal/shared/config"
)

type options struct {
	text    string
	model   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "feedback [resume.pdf|resume.txt]",
		Short: "Get career-coach feedback on a resume",
		Long: `Extract the text of a resume and ask the configured model for feedback.

Examples:
  feedback resume.pdf
  feedback --text "Jane Doe, staff engineer, 12 years of distributed systems"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.text, "text", "", "Resume text to evaluate instead of a file")
	cmd.Flags().StringVar(&opts.model, "model", "", "Override LLM_MODEL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Override OPENAI_TIMEOUT_SECONDS")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "configuration error: %v\n", err)
		return err
	}
	if opts.model != "" {
		cfg.LLMModel = opts.model
	}
	if opts.timeout > 0 {
		cfg.RequestTimeout = opts.timeout
	}

	ctx := context.Background()
	resumeText, err := readResume(ctx, args, opts.text)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		return err
	}
	if strings.TrimSpace(resumeText) == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠️ Please provide a PDF or resume text to get feedback.")
		return feedback.ErrEmptyResume
	}

	client, err := bootstrap.NewCompleter(cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		return err
	}
	svc := &feedback.Service{LLM: client, MaxResumeChars: cfg.MaxResumeChars}

	res := svc.Request(ctx, resumeText)
	fmt.Fprintln(cmd.OutOrStdout(), res.Display())
	return res.Err
}

func readResume(ctx context.Context, args []string, text string) (string, error) {
	if len(args) == 0 {
		return extract.FromPasted(text), nil
	}
	if text != "" {
		return "", errors.New("pass either a file or --text, not both")
	}

	path := args[0]
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read resume: %w", err)
		}
		return extract.FromPasted(string(raw)), nil
	}
	if err := extract.ValidatePDF(path, ""); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat resume: %w", err)
	}
	text, err = extract.FromPDF(ctx, f, info.Size())
	if err != nil {
		return "", fmt.Errorf("extract resume text: %w", err)
	}
	return text, nil
}
