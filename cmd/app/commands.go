package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yanqian/faq-assistant/internal/domain/assistant"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "faq-assistant",
		Short:         "Answer city FAQs from a curated knowledge base",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServe,
	}
	root.AddCommand(newServeCmd(), newAskCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initializeApp(ctx)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("application stopped with error: %w", err)
	}
	return nil
}

func newAskCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := initializeAssistant(ctx)
			if err != nil {
				return fmt.Errorf("wire assistant: %w", err)
			}
			defer cleanup()

			return ask(ctx, svc, strings.Join(args, " "), asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	return cmd
}

func ask(ctx context.Context, svc assistant.Service, question string, asJSON bool, out io.Writer) error {
	resp, err := svc.Ask(ctx, assistant.Request{Question: question})
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if _, err := fmt.Fprintln(out, resp.Answer); err != nil {
		return err
	}
	if resp.MatchedQuestion != "" {
		_, err = fmt.Fprintf(out, "Based on: %s\n", resp.MatchedQuestion)
	}
	return err
}
