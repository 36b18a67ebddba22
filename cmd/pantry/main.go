// cmd/pantry/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ammerola/pantry-be/internal/bootstrap"
	"github.com/ammerola/pantry-be/internal/pkg/config"
	"github.com/ammerola/pantry-be/internal/pkg/logger"
)

var (
	// Global flags
	email    string
	password string
	register bool
	verbose  bool

	// Set by PersistentPreRunE
	client *app
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pantry",
	Short: "Track what is in your pantry",
	Long: `pantry manages a personal inventory of items, each with a category, a
quantity and an optional image classification.

Storage follows the same STORE_DRIVER setting as the API server; use
STORE_DRIVER=sqlite with SQLITE_PATH for a local file.

Credentials come from --email/--password or PANTRY_EMAIL/PANTRY_PASSWORD.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		log := logger.NewLogger(&logger.LogConfig{Level: level, Format: "text", Output: "stderr"}).Logger

		cfg, err := config.Load(log)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := cmd.Context()
		backends, err := bootstrap.Open(ctx, cfg, nil, log)
		if err != nil {
			return err
		}

		classifier, err := bootstrap.NewClassifier(ctx, cfg, backends.Redis, nil, log)
		if err != nil {
			backends.Close()
			return err
		}

		client = newApp(backends, classifier, bootstrap.NewCapturer(cfg, log), cfg, log)

		// Users live in memory unless the store is Postgres, so the account
		// is recreated on every run.
		autoRegister := register || cfg.Store.Driver != config.StorePostgres
		return client.signIn(ctx, email, password, autoRegister)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			_ = client.session.SignOut(cmd.Context())
			client.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&email, "email", os.Getenv("PANTRY_EMAIL"), "account email")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("PANTRY_PASSWORD"), "account password")
	rootCmd.PersistentFlags().BoolVar(&register, "register", false, "create the account when it does not exist")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(addCmd, removeCmd, removeAllCmd, listCmd, summaryCmd, exportCmd, classifyCmd, shellCmd)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
