// Package cli implements the sisfarm subcommands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/app"
	"github.com/JosCraft/sisfarm-go/internal/cache"
	"github.com/JosCraft/sisfarm-go/internal/composer"
	"github.com/JosCraft/sisfarm-go/internal/dispatch"
	"github.com/JosCraft/sisfarm-go/internal/session"
)

// Params groups the dependencies the subcommands share.
type Params struct {
	Config     *app.Config
	Logger     *slog.Logger
	Session    *session.Session
	Client     *api.Client
	Cache      *cache.Cache
	Dispatcher *dispatch.Dispatcher
	In         io.Reader
	Out        io.Writer
}

// App carries the wired client stack through the subcommands.
type App struct {
	cfg        *app.Config
	logger     *slog.Logger
	session    *session.Session
	client     *api.Client
	cache      *cache.Cache
	dispatcher *dispatch.Dispatcher
	in         *bufio.Scanner
	out        io.Writer
	printer    *message.Printer
}

// New constructs the App.
func New(p Params) *App {
	return &App{
		cfg:        p.Config,
		logger:     p.Logger,
		session:    p.Session,
		client:     p.Client,
		cache:      p.Cache,
		dispatcher: p.Dispatcher,
		in:         bufio.NewScanner(p.In),
		out:        p.Out,
		printer:    message.NewPrinter(language.Spanish),
	}
}

// prompt prints label and reads one trimmed line.
func (a *App) prompt(label string) string {
	fmt.Fprintf(a.out, "%s: ", label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

// money formats an amount with grouping for terminal output.
func (a *App) money(v float64) string {
	return a.printer.Sprintf("Bs %.2f", v)
}

// loadCatalog fetches the product collection through the cache and
// indexes it for the composers.
func (a *App) loadCatalog(ctx context.Context) (*composer.Catalog, []api.Product, error) {
	products, err := cache.Fetch(ctx, a.cache, cache.KeyProducts, a.client.ListProducts)
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}
	return composer.NewCatalog(products), products, nil
}

// reportAPIError renders a remote failure, calling out auth failures
// the way the dashboard does.
func (a *App) reportAPIError(err error) {
	if api.IsAuthFailure(err) {
		fmt.Fprintln(a.out, "unauthorized: run `sisfarm login` and try again")
		return
	}
	fmt.Fprintln(a.out, "request failed:", err)
}
