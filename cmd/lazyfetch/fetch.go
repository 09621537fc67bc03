package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/lazyfetch"
	"github.com/aretw0/lazyfetch/internal/presentation/tui"
	"github.com/aretw0/lazyfetch/pkg/observability"
	"github.com/aretw0/lazyfetch/pkg/redact"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Resolve one URL lazily and print its version and body",
	Long: `Builds one cache for URL, registers the default interrupt conditions
(status not successful, content type application/pdf, original method HEAD)
plus any configured ones, then prints the protocol version and the body.
The body is only downloaded when no condition stopped resolution first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		method, _ := cmd.Flags().GetString("method")
		render, _ := cmd.Flags().GetBool("render")
		summary, _ := cmd.Flags().GetBool("summary")
		quiet, _ := cmd.Flags().GetBool("quiet")
		noDefaults, _ := cmd.Flags().GetBool("no-default-interrupts")
		headers, _ := cmd.Flags().GetStringArray("header")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), args[0], nil)
		if err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
		for _, h := range headers {
			name, value, ok := strings.Cut(h, ":")
			if !ok {
				return fmt.Errorf("invalid header %q, want Name: value", h)
			}
			req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}

		journal, closeJournal, err := openJournal(cfg, logger)
		if err != nil {
			return err
		}
		defer closeJournal()
		trail := uuid.New().String()

		opts, err := cfg.Options()
		if err != nil {
			return err
		}
		redactor, err := redact.New(cfg.Redact)
		if err != nil {
			return err
		}
		opts = append(opts,
			lazyfetch.WithLogger(logger),
			lazyfetch.WithLifecycleHooks(observability.Compose(
				observability.LogHooks(logger.With("trail", trail)),
				observability.JournalHooks(journal, trail, logger),
			)),
		)

		cache, err := lazyfetch.New(req, opts...)
		if err != nil {
			return err
		}
		if !noDefaults {
			cache.AddInterruptCondition(lazyfetch.StatusNotSuccess())
			cache.AddInterruptCondition(lazyfetch.ContentTypeIs("application/pdf"))
			cache.AddInterruptCondition(lazyfetch.MethodIs(http.MethodHead))
		}

		out := cmd.OutOrStdout()
		if !quiet {
			tui.PrintBanner(out, lazyfetch.Version)
		}

		runner := &lazyfetch.Runner{
			Output:   out,
			Fields:   []lazyfetch.Field{lazyfetch.FieldVersion, lazyfetch.FieldBody},
			Headless: quiet,
			Renderer: tui.BodyRenderer(render, tui.Width(os.Stdout)),
		}
		runErr := runner.Run(ctx, cache)

		if summary {
			snap := cache.Snapshot()
			snap.Error = redactor.Text(snap.Error, snap.URL)
			snap.URL = redactor.URL(snap.URL)
			fmt.Fprintln(out)
			tui.NewPrinter(out).Snapshot(snap, true)
			if cfg.Redis.Addr != "" {
				fmt.Fprintf(out, "trail %s\n", trail)
			}
		}
		if runErr != nil {
			return errors.New(redactor.Text(runErr.Error(), req.URL.String()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringP("method", "X", http.MethodGet, "Request method")
	fetchCmd.Flags().StringArrayP("header", "H", nil, "Request header as 'Name: value', repeatable")
	fetchCmd.Flags().Bool("render", false, "Render a markdown body for the terminal")
	fetchCmd.Flags().Bool("summary", false, "Print every resolved attribute after the body")
	fetchCmd.Flags().BoolP("quiet", "q", false, "Print only the requested fields")
	fetchCmd.Flags().Bool("no-default-interrupts", false, "Do not register the default interrupt conditions")
}
