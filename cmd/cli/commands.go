package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dsjohal14/corphealth/internal/libs/config"
	"github.com/dsjohal14/corphealth/internal/libs/obs"
	"github.com/dsjohal14/corphealth/internal/scope/catalog"
	"github.com/dsjohal14/corphealth/internal/scope/db"
	"github.com/dsjohal14/corphealth/internal/scope/records"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	json bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "corphealth",
		Short:         "Corporate Health API CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	statusCmd := &cobra.Command{Use: "status", Short: "Status check records"}
	statusCmd.AddCommand(newStatusListCmd(opts), newStatusAddCmd(opts))

	contactCmd := &cobra.Command{Use: "contact", Short: "Contact message records"}
	contactCmd.AddCommand(newContactListCmd(opts))

	root.AddCommand(newServicesCmd(opts), statusCmd, contactCmd, newMigrateCmd())
	return root
}

func newServicesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "Print the service catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services := catalog.Services()
			if opts.json {
				return printJSON(cmd.OutOrStdout(), services)
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "ICON"}, len(services), func(i int) []any {
				return []any{services[i].ID, services[i].Title, services[i].Icon}
			})
		},
	}
}

func newStatusListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored status checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRepository(cmd, func(ctx context.Context, repo *records.Repository) error {
				checks, err := repo.ListStatusChecks(ctx)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), checks)
				}
				return printTable(cmd.OutOrStdout(), []string{"ID", "CLIENT", "TIMESTAMP"}, len(checks), func(i int) []any {
					return []any{checks[i].ID, checks[i].ClientName, checks[i].Timestamp}
				})
			})
		},
	}
}

func newStatusAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <client_name>",
		Short: "Record a status check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd, func(ctx context.Context, repo *records.Repository) error {
				check, err := repo.CreateStatusCheck(ctx, args[0])
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), check)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), check.ID)
				return err
			})
		},
	}
}

func newContactListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored contact messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRepository(cmd, func(ctx context.Context, repo *records.Repository) error {
				messages, err := repo.ListContactMessages(ctx)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), messages)
				}
				return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "EMAIL", "TIMESTAMP", "MESSAGE"}, len(messages), func(i int) []any {
					m := messages[i]
					return []any{m.ID, m.Name, m.Email, m.Timestamp, m.Message}
				})
			})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create record collections ahead of first use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, store db.Storage) error {
				names, err := records.Migrate(ctx, store)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "nothing to migrate for this driver")
					return err
				}
				for _, name := range names {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "ensured %s\n", name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// withStore loads config, opens the store for the duration of fn and closes it after
func withStore(cmd *cobra.Command, fn func(context.Context, db.Storage) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("cli")

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	storeLogger := obs.Logger("store")
	store, err := db.Open(ctx, db.Options{
		Driver:   cfg.StoreDriver,
		URL:      cfg.DatabaseURL,
		Database: cfg.DatabaseName,
		DataDir:  cfg.DataDir,
		Logger:   &storeLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close store")
		}
	}()

	logger.Debug().Str("driver", cfg.StoreDriver).Str("command", cmd.CommandPath()).Msg("store opened")
	return fn(ctx, store)
}

func withRepository(cmd *cobra.Command, fn func(context.Context, *records.Repository) error) error {
	return withStore(cmd, func(ctx context.Context, store db.Storage) error {
		return fn(ctx, records.NewRepository(store))
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, header []string, rows int, row func(int) []any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)

	for i := 0; i < rows; i++ {
		for j, cell := range row(i) {
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
