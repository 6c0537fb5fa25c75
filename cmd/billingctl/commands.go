package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"billing-cache-api/internal/app"
	"billing-cache-api/internal/config"
	"billing-cache-api/internal/ingest"
	"billing-cache-api/internal/menu"
	"billing-cache-api/internal/service"

	"github.com/chzyer/readline"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rc := &cobra.Command{
		Use:   "billingctl",
		Short: "Query and maintain the billing database.",
		Long: `billingctl runs the predefined billing queries and the client and
product maintenance screens against MongoDB, keeping the Redis client
cache in sync. Settings are read from the environment and .env.`,
		SilenceUsage: true,
	}

	rc.AddCommand(newMenuCommand())
	rc.AddCommand(newLoadCommand())
	rc.AddCommand(newQueriesCommand())
	rc.AddCommand(newQueryCommand())
	rc.AddCommand(newAuditCommand())
	return rc
}

// withApp opens the stores for one command and closes them on every exit path.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.ConfigureLogging(cfg)

	a, err := app.Open(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(context.Background(), a)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newMenuCommand() *cobra.Command {
	var historyPath string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				rl, err := readline.NewEx(&readline.Config{
					Prompt:       "> ",
					HistoryFile:  historyPath,
					HistoryLimit: 1000,
				})
				if err != nil {
					return fmt.Errorf("getting readline: %w", err)
				}
				defer rl.Close()

				return menu.New(menu.Services{
					Catalog:  a.Catalog,
					Clients:  a.Clients,
					Products: a.Products,
					Journal:  a.Journal,
				}, rl, rl.Stdout()).Run(ctx)
			})
		},
	}
	home, _ := os.UserHomeDir()
	cmd.Flags().StringVar(&historyPath, "history", filepath.Join(home, ".billingctl_history"), "Prompt history file.")
	return cmd
}

func newLoadCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Replace all data with the CSV data set and clear the cache.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if dir == "" {
					dir = a.Config.Data.Dir
				}
				result, err := a.Loader.Load(ctx, ingest.NewSource(dir))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d clients, %d products and %d invoices in %v\n",
					result.Clients, result.Products, result.Invoices, result.Duration)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Data set directory (default DATA_DIR).")
	return cmd
}

func newQueriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List the predefined queries.",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := service.NewCatalog(nil, nil, nil)
			for _, q := range catalog.All() {
				input := ""
				switch q.Input {
				case service.ParamName:
					input = " (--first, --last)"
				case service.ParamBrand:
					input = " (--brand)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %-26s %s%s\n", q.Number, q.Name, q.Description, input)
			}
			return nil
		},
	}
}

func newQueryCommand() *cobra.Command {
	var p service.Params
	cmd := &cobra.Command{
		Use:   "query <name|number>",
		Short: "Run one predefined query and print the result as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				q, err := a.Catalog.Lookup(args[0])
				if err != nil {
					return err
				}
				result, err := q.Run(ctx, p)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().StringVar(&p.FirstName, "first", "", "Client first name.")
	cmd.Flags().StringVar(&p.LastName, "last", "", "Client last name.")
	cmd.Flags().StringVar(&p.Brand, "brand", "", "Product brand (substring, case-insensitive).")
	return cmd
}

func newAuditCommand() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Print the mutation journal, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				entries, _, err := a.Journal.List(ctx, limit, offset)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries.")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip.")
	return cmd
}
