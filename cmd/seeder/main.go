// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ammerola/pantry-be/internal/adapters/export"
	"github.com/ammerola/pantry-be/internal/bootstrap"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/internal/core/services"
	"github.com/ammerola/pantry-be/internal/pkg/config"
	"github.com/ammerola/pantry-be/internal/pkg/logger"
)

// seederState records which files were already seeded.
type seederState struct {
	ProcessedFiles []string  `json:"processed_files"`
	ProcessedCount int       `json:"processed_count"`
	LastUpdate     time.Time `json:"last_update"`
}

func (s *seederState) done(name string) bool {
	for _, f := range s.ProcessedFiles {
		if f == name {
			return true
		}
	}
	return false
}

func main() {
	var (
		seedDir   = flag.String("dir", "./seed", "Directory containing receipts (.pdf) and item lists (.csv, .xlsx)")
		email     = flag.String("email", os.Getenv("PANTRY_EMAIL"), "Account to seed; registered when missing")
		password  = flag.String("password", os.Getenv("PANTRY_PASSWORD"), "Account password")
		namespace = flag.String("namespace", "", "Seed this namespace directly instead of signing in")
		stateFile = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun    = flag.Bool("dry-run", false, "Preview items without writing them")
		force     = flag.Bool("force", false, "Reprocess all files")
	)
	flag.Parse()

	log := logger.SetupLogger(*logLevel, "json").Logger

	cfg, err := config.Load(log)
	if err != nil {
		log.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	backends, err := bootstrap.Open(ctx, cfg, nil, log)
	if err != nil {
		log.Error("failed to open store", "err", err)
		os.Exit(1)
	}
	defer backends.Close()

	inventory := services.NewInventoryService(backends.Items, log)

	ns := *namespace
	if ns == "" {
		auth := services.NewAuthService(backends.Users, backends.Sessions, services.AuthConfig{
			SessionTTL: cfg.Auth.SessionTTL,
			BcryptCost: cfg.Auth.BcryptCost,
		}, log)
		ns, err = resolveNamespace(ctx, auth, *email, *password)
		if err != nil {
			log.Error("failed to resolve seed account", "err", err)
			os.Exit(1)
		}
	}

	var state seederState
	if !*force {
		if data, err := os.ReadFile(*stateFile); err == nil {
			if err := json.Unmarshal(data, &state); err != nil {
				log.Warn("ignoring unreadable state file", "err", err)
			}
		}
	}

	files, err := seedFiles(*seedDir)
	if err != nil {
		log.Error("failed to list seed files", "err", err)
		os.Exit(1)
	}

	parser := NewReceiptParser(log)
	totalProcessed, totalItems := 0, 0
	var failed []string

	for i, file := range files {
		name := filepath.Base(file)
		fmt.Printf("PROGRESS: Processing %d/%d: %s\n", i+1, len(files), name)

		if !*force && state.done(name) {
			log.Info("skipping already processed file", slog.String("file", name))
			continue
		}

		items, err := readItems(parser, file)
		if err != nil {
			log.Error("failed to read seed file", slog.String("file", name), "err", err)
			fmt.Printf("ERROR: %s - %v\n", name, err)
			failed = append(failed, name)
			continue
		}
		if len(items) == 0 {
			fmt.Printf("WARNING: No items found in %s\n", name)
			failed = append(failed, fmt.Sprintf("%s (0 items)", name))
			continue
		}

		if *dryRun {
			for _, item := range items {
				fmt.Printf("  %-40s %-12s x%d\n", item.Name, item.Category, item.Quantity)
			}
		} else {
			merged, err := mergeExisting(ctx, inventory, ns, items)
			if err != nil {
				log.Error("failed to read existing items", slog.String("file", name), "err", err)
				failed = append(failed, name)
				continue
			}

			result, err := inventory.Import(ctx, ns, merged)
			if err != nil {
				log.Error("failed to save items", slog.String("file", name), "err", err)
				fmt.Printf("ERROR: %s - %v\n", name, err)
				failed = append(failed, name)
				continue
			}
			for _, rowErr := range result.Errors {
				fmt.Printf("  row %d (%s): %s\n", rowErr.Row, rowErr.Name, rowErr.Message)
			}
		}

		fmt.Printf("SUCCESS: %s - %d items\n", name, len(items))
		totalProcessed++
		totalItems += len(items)

		state.ProcessedFiles = append(state.ProcessedFiles, name)
		state.ProcessedCount = len(state.ProcessedFiles)
		state.LastUpdate = time.Now()
	}

	if !*dryRun {
		data, _ := json.MarshalIndent(state, "", "  ")
		if err := os.WriteFile(*stateFile, data, 0o644); err != nil {
			log.Warn("failed to write state file", "err", err)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEED SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Files processed: %d\n", totalProcessed)
	fmt.Printf("Items seeded:    %d\n", totalItems)
	if len(failed) > 0 {
		fmt.Printf("\nFailed or empty files (%d):\n", len(failed))
		for _, f := range failed {
			fmt.Printf("  - %s\n", f)
		}
	}
	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes were made")
	}

	log.Info("seed operation completed",
		slog.String("namespace", ns),
		slog.Int("files_processed", totalProcessed),
		slog.Int("items", totalItems),
		slog.Int("failed_files", len(failed)))
}

// resolveNamespace signs in, registering the account first when it does
// not exist yet.
func resolveNamespace(ctx context.Context, auth *services.AuthService, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("-email and -password (or -namespace) are required")
	}

	session, err := auth.SignIn(ctx, email, password)
	var authErr *domain.AuthError
	if errors.As(err, &authErr) && authErr.Reason == domain.AuthUserNotFound {
		if _, err := auth.Register(ctx, email, password); err != nil {
			return "", err
		}
		session, err = auth.SignIn(ctx, email, password)
	}
	if err != nil {
		return "", err
	}
	return session.Namespace(), nil
}

func seedFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.pdf", "*.csv", "*.xlsx"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func readItems(parser *ReceiptParser, path string) ([]domain.Item, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return parser.ParseFile(path)
	case ".csv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return export.Parse(domain.ExportCSV, data)
	case ".xlsx":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return export.Parse(domain.ExportXLSX, data)
	default:
		return nil, fmt.Errorf("unsupported file %s", path)
	}
}

// mergeExisting adds stored quantities onto seeded rows, since an import
// replaces each record.
func mergeExisting(ctx context.Context, inventory ports.InventoryService, namespace string, items []domain.Item) ([]domain.Item, error) {
	merged := make([]domain.Item, len(items))
	for i, item := range items {
		existing, err := inventory.Get(ctx, namespace, item.Name)
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
		case errors.Is(err, domain.ErrValidation):
		case err != nil:
			return nil, err
		default:
			item.Quantity += existing.Quantity
			item.Classification = existing.Classification
			if item.Category == "" {
				item.Category = existing.Category
			}
		}
		merged[i] = item
	}
	return merged, nil
}
