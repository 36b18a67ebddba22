// cmd/pantry/app.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ammerola/pantry-be/internal/adapters/export"
	"github.com/ammerola/pantry-be/internal/bootstrap"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/internal/core/services"
	"github.com/ammerola/pantry-be/internal/pkg/config"
)

// app is the signed in client every command runs against.
type app struct {
	logger         *slog.Logger
	auth           *services.AuthService
	session        *services.SessionProvider
	inventory      *services.InventoryService
	exports        *services.ExportService
	classification *services.ClassificationService
	closers        []func()
}

// newApp wires services on top of backends. classifier and capturer may be nil.
func newApp(backends *bootstrap.Backends, classifier ports.Classifier, capturer ports.Capturer, cfg *config.Config, logger *slog.Logger) *app {
	inventory := services.NewInventoryService(backends.Items, logger)
	auth := services.NewAuthService(backends.Users, backends.Sessions, services.AuthConfig{
		SessionTTL: cfg.Auth.SessionTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger)

	a := &app{
		logger:    logger,
		auth:      auth,
		session:   services.NewSessionProvider(auth, logger),
		inventory: inventory,
		exports:   services.NewExportService(inventory, export.NewExporter(), nil, services.ExportConfig{}, logger),
		closers:   []func(){backends.Close},
	}
	if classifier != nil {
		a.classification = services.NewClassificationService(classifier, inventory, capturer, logger)
	}
	return a
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// signIn signs in, registering the account first when register is set and
// the email is unknown.
func (a *app) signIn(ctx context.Context, email, password string, register bool) error {
	if email == "" || password == "" {
		return errors.New("credentials required: pass --email and --password or set PANTRY_EMAIL and PANTRY_PASSWORD")
	}

	_, err := a.session.SignIn(ctx, email, password)
	var authErr *domain.AuthError
	if register && errors.As(err, &authErr) && authErr.Reason == domain.AuthUserNotFound {
		if _, err := a.auth.Register(ctx, email, password); err != nil {
			return err
		}
		_, err = a.session.SignIn(ctx, email, password)
	}
	if errors.As(err, &authErr) {
		return errors.New(authErr.UserMessage())
	}
	return err
}

// namespace returns the signed in user's namespace.
func (a *app) namespace() (string, error) {
	session := a.session.Current()
	if session == nil {
		return "", domain.ErrUnauthenticated
	}
	return session.Namespace(), nil
}

func (a *app) printItems(w io.Writer, items []domain.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tQTY\tCLASSIFICATION")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", item.Name, item.Category, item.Quantity, item.Classification)
	}
	tw.Flush()
}

func (a *app) printSummary(w io.Writer, summary *domain.Summary) {
	fmt.Fprintf(w, "%d items, %d units, %d classified\n",
		summary.TotalItems, summary.TotalQuantity, summary.Classified)

	tw := newTable(w)
	for _, c := range summary.Categories {
		fmt.Fprintf(tw, "  %s\t%d items\t%d units\n", c.Category, c.Items, c.TotalQuantity)
	}
	tw.Flush()
}
