// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cpp41419/fns50322-answers/internal/cache"
	"github.com/cpp41419/fns50322-answers/internal/catalog"
	"github.com/cpp41419/fns50322-answers/internal/config"
	"github.com/cpp41419/fns50322-answers/internal/database"
	"github.com/cpp41419/fns50322-answers/internal/seed"
	"github.com/cpp41419/fns50322-answers/internal/store"
)

func applyCmd() *cobra.Command {
	var (
		migrate bool
		source  string
	)

	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Upsert a seed file into the catalog database",
		Long: `Apply upserts the file's categories and then its questions. Each batch
is all-or-nothing: if any question references an unknown category no
question is written. Connection settings come from the same environment
variables as the server (POSTGRES_*, VALKEY_*), with .env.local and .env
loaded first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			if source == "" {
				source = filepath.Base(args[0])
			}

			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := apply(ctx, cfg, f, source, migrate)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "categories: %d inserted, %d updated\n", res.Categories.Inserted, res.Categories.Updated)
			fmt.Fprintf(out, "questions: %d inserted, %d updated\n", res.Questions.Inserted, res.Questions.Updated)
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "run pending database migrations first")
	cmd.Flags().StringVar(&source, "source", "", "label recorded in the upsert log (default: file name)")

	return cmd
}

func apply(ctx context.Context, cfg *config.Config, f *seed.File, source string, migrate bool) (seed.Result, error) {
	db, err := database.Connect(cfg.DSN(), database.DefaultPool)
	if err != nil {
		return seed.Result{}, err
	}
	defer db.Close()

	if migrate {
		if err := database.Migrate(db); err != nil {
			return seed.Result{}, err
		}
	}

	// No view recorder: seeding never reads questions through the public path.
	cat := catalog.New(store.NewCategoryStore(db), store.NewQuestionStore(db), nil)

	res, err := seed.Apply(ctx, cat, f)

	upsertLog := store.NewUpsertLogStore(db)
	if res.Categories.Total() > 0 {
		upsertLog.Log(ctx, "category", res.Categories, source)
	}
	if res.Questions.Total() > 0 {
		upsertLog.Log(ctx, "question", res.Questions, source)
	}
	if err != nil {
		return res, err
	}

	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("could not reach valkey, cached responses expire on their own", "error", err)
			return res, nil
		}
		defer client.Close()
		cache.NewResponseCache(client, cfg.CacheTTL).InvalidateAll(ctx)
	}
	return res, nil
}
