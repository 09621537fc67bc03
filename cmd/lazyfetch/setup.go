package main

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/lazyfetch/internal/config"
	"github.com/aretw0/lazyfetch/internal/logging"
	"github.com/aretw0/lazyfetch/pkg/adapters/memory"
	"github.com/aretw0/lazyfetch/pkg/adapters/redis"
	"github.com/aretw0/lazyfetch/pkg/persistence/middleware"
	"github.com/aretw0/lazyfetch/pkg/ports"
	"github.com/spf13/cobra"
)

// loadConfig merges the config file with the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath)
	}
	if err != nil {
		return cfg, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("probe-method") {
		cfg.ProbeMethod, _ = cmd.Flags().GetString("probe-method")
	}
	flagged, _ := cmd.Flags().GetStringArray("interrupt")
	for _, raw := range flagged {
		spec, err := config.ParseInterrupt(raw)
		if err != nil {
			return cfg, nil, fmt.Errorf("--interrupt %q: %w", raw, err)
		}
		cfg.Interrupts = append(cfg.Interrupts, spec)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(level), nil
}

// openJournal returns the Redis journal when configured, the in-memory one
// otherwise, behind the configured redaction. The returned func releases it.
func openJournal(cfg config.Config, logger *slog.Logger) (ports.Journal, func(), error) {
	redact, err := middleware.NewRedactMiddleware(cfg.Redact)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Redis.Addr == "" {
		return middleware.Chain(memory.NewJournal(), redact), func() {}, nil
	}

	var opts []redis.Option
	if cfg.Redis.Prefix != "" {
		opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
	}
	if cfg.Redis.TTL > 0 {
		opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
	}
	j := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
	logger.Debug("using redis journal", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)

	return middleware.Chain(j, redact), func() {
		if err := j.Close(); err != nil {
			logger.Warn("closing redis journal", "err", err)
		}
	}, nil
}
