package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"

	"github.com/movimail/movimail/pkg/config"
	"github.com/movimail/movimail/pkg/mail"
	"github.com/movimail/movimail/pkg/parser"
	"github.com/movimail/movimail/pkg/service"
	"github.com/movimail/movimail/pkg/store"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "movimail",
	Short: "Capture bank transactions from notification emails",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch recent bank emails and store parsed transactions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		days, _ := cmd.Flags().GetInt("days")
		if days == 0 {
			days = cfg.DaysBack
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		ctx := context.Background()
		processor, cleanup, err := buildProcessor(ctx, cfg, logger, dryRun)
		if err != nil {
			return err
		}
		defer cleanup()

		summary, err := processor.Run(ctx, days)
		if err != nil {
			return err
		}
		fmt.Printf("fetched %d, processed %d, skipped %d, duplicates %d, errors %d\n",
			summary.Fetched, summary.Processed, summary.Skipped, summary.Duplicates, summary.Errors)
		return nil
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently stored transactions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		st, err := newStore(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		txs, err := st.Recent(context.Background(), limit)
		if err != nil {
			return err
		}
		for _, tx := range txs {
			pp.Println(tx)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run ingestion on a cron schedule",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		ctx := context.Background()
		processor, cleanup, err := buildProcessor(ctx, cfg, logger, false)
		if err != nil {
			return err
		}
		defer cleanup()

		run := func() {
			if _, err := processor.Run(ctx, cfg.DaysBack); err != nil {
				logger.Error("ingestion run failed", "error", err)
			}
		}

		logger.Info("starting scheduler", "schedule", cfg.Schedule)
		run()

		c := cron.New()
		if err := c.AddFunc(cfg.Schedule, run); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
		}
		c.Start()
		select {}
	},
}

func newLogger() *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "movimail",
	}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func newStore(_ context.Context, cfg *config.Config) (*store.Postgres, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url is required")
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	return store.NewPostgres(cfg.DatabaseURL, cfg.UserID)
}

func buildProcessor(ctx context.Context, cfg *config.Config, logger *log.Logger, dryRun bool) (*service.Processor, func(), error) {
	source, err := mail.NewGmail(ctx, cfg.GmailCredentials, cfg.GmailToken, logger)
	if err != nil {
		return nil, nil, err
	}

	registry := parser.NewRegistry(logger)
	cleanup := func() {}

	var sink store.Store
	if !dryRun {
		pg, err := newStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Init(ctx); err != nil {
			return nil, nil, err
		}
		sink = pg
		cleanup = func() { pg.Close() }
	}

	processor := service.NewProcessor(source, sink, registry, logger)
	if dryRun {
		processor.DryRun()
	}
	return processor, cleanup, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	ingestCmd.Flags().Int("days", 0, "Days of mail to search (default from config)")
	ingestCmd.Flags().Bool("dry-run", false, "Parse without storing")
	recentCmd.Flags().Int("limit", 20, "Number of transactions to show")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
