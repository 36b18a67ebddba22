// cmd/pantry/shell.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session; type help for commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

const shellHelp = `commands:
  add NAME [-c CATEGORY]   add one unit
  remove NAME              remove one unit
  remove-all NAME          delete the item
  list [SEARCH]            list items
  category CATEGORY        filter list by category (All clears)
  summary                  totals per category
  classify NAME            classify a captured snapshot onto NAME
  whoami                   show the signed in account
  sign-in EMAIL PASSWORD   switch account
  sign-out                 end the session
  quit                     exit`

// shell is a line oriented client. The signed in state comes from the
// session provider's change notifications, and every sign in re-renders the
// list for the new account.
type shell struct {
	app      *app
	out      io.Writer
	session  *domain.Session
	category string
}

func runShell(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	sh := &shell{app: a, out: out, category: domain.CategoryAll}

	unsubscribe := a.session.OnChange(func(s *domain.Session) {
		sh.session = s
		if s == nil {
			fmt.Fprintln(out, "signed out")
			return
		}
		fmt.Fprintf(out, "signed in as %s\n", s.Email)
		sh.render(ctx)
	})
	defer unsubscribe()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "pantry> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		quit, err := sh.exec(ctx, fields[0], fields[1:])
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", describe(err))
		}
		if quit {
			return nil
		}
	}
}

func (sh *shell) exec(ctx context.Context, command string, args []string) (bool, error) {
	switch command {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
		return false, nil
	case "sign-in":
		if len(args) != 2 {
			return false, errors.New("usage: sign-in EMAIL PASSWORD")
		}
		return false, sh.app.signIn(ctx, args[0], args[1], false)
	case "sign-out":
		return false, sh.app.session.SignOut(ctx)
	}

	if sh.session == nil {
		return false, errors.New("not signed in")
	}
	ns := sh.session.Namespace()
	inventory := sh.app.inventory

	switch command {
	case "whoami":
		fmt.Fprintln(sh.out, sh.session.Email)

	case "add":
		name, category := splitCategory(args)
		quantity, err := inventory.AddOne(ctx, ns, name, category)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(sh.out, "%s: %d\n", domain.NormalizeKey(name), quantity)

	case "remove":
		name := strings.Join(args, " ")
		remaining, err := inventory.RemoveOneOrDelete(ctx, ns, name)
		if err != nil {
			return false, err
		}
		if remaining == 0 {
			fmt.Fprintf(sh.out, "%s: deleted\n", name)
		} else {
			fmt.Fprintf(sh.out, "%s: %d\n", name, remaining)
		}

	case "remove-all":
		name := strings.Join(args, " ")
		if err := inventory.RemoveAll(ctx, ns, name); err != nil {
			return false, err
		}
		fmt.Fprintf(sh.out, "%s: deleted\n", name)

	case "list":
		items, err := inventory.ListFiltered(ctx, ns, strings.Join(args, " "), sh.category)
		if err != nil {
			return false, err
		}
		sh.app.printItems(sh.out, items)

	case "category":
		if len(args) == 0 {
			fmt.Fprintf(sh.out, "%s (choices: %s)\n", sh.category, strings.Join(domain.FilterCategories(), ", "))
			return false, nil
		}
		sh.category = strings.Join(args, " ")

	case "summary":
		summary, err := inventory.Summary(ctx, ns)
		if err != nil {
			return false, err
		}
		sh.app.printSummary(sh.out, summary)

	case "classify":
		if sh.app.classification == nil {
			return false, errors.New("classifier is not configured")
		}
		item, err := sh.app.classification.CaptureAndClassify(ctx, ns, strings.Join(args, " "))
		if err != nil {
			return false, err
		}
		fmt.Fprintf(sh.out, "%s: %s\n", item.Name, item.Classification)

	default:
		return false, fmt.Errorf("unknown command %q, type help", command)
	}
	return false, nil
}

// render prints the current list for the signed in account. Failures are
// reported inline since they happen inside a session notification.
func (sh *shell) render(ctx context.Context) {
	items, err := sh.app.inventory.ListFiltered(ctx, sh.session.Namespace(), "", sh.category)
	if err != nil {
		fmt.Fprintf(sh.out, "error: %s\n", describe(err))
		return
	}
	sh.app.printItems(sh.out, items)
}

// splitCategory separates a trailing "-c CATEGORY" from the item name.
func splitCategory(args []string) (string, string) {
	category := domain.CategoryFood
	for i, arg := range args {
		if arg == "-c" && i+1 < len(args) {
			category = strings.Join(args[i+1:], " ")
			args = args[:i]
			break
		}
	}
	return strings.Join(args, " "), category
}

func describe(err error) string {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.Is(err, domain.ErrItemNotFound):
		return "item not found"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "storage is temporarily unavailable"
	default:
		return err.Error()
	}
}
