// Command sisfarm is the terminal administration client for the
// SisFarm pharmacy backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JosCraft/sisfarm-go/cmd/sisfarm/cli"
	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/app"
	"github.com/JosCraft/sisfarm-go/internal/cache"
	"github.com/JosCraft/sisfarm-go/internal/dispatch"
	"github.com/JosCraft/sisfarm-go/internal/session"
)

const usage = `usage: sisfarm <command> [flags]

commands:
  login       authenticate and store the bearer token
  logout      discard the stored token
  products    list the product catalog
  low-stock   list products at or below their minimum stock
  customers   list customers
  providers   list providers
  sales       list committed sales
  purchases   list committed purchases
  sale        compose and commit a sale interactively
  purchase    compose and commit a purchase interactively
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "sisfarm:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	sess, err := session.Load(cfg.TokenPath)
	if err != nil {
		return err
	}

	client := api.NewClient(api.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Tokens:  sess,
		Logger:  logger,
	})

	var store cache.Store
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		store = cache.NewMemoryStore()
	}
	entityCache := cache.New(cache.Options{
		Store:  store,
		TTL:    cfg.CacheTTL,
		Logger: logger,
	})

	a := cli.New(cli.Params{
		Config:     cfg,
		Logger:     logger,
		Session:    sess,
		Client:     client,
		Cache:      entityCache,
		Dispatcher: dispatch.New(entityCache, logger),
		In:         os.Stdin,
		Out:        os.Stdout,
	})

	switch command {
	case "login":
		return a.Login(ctx, args)
	case "logout":
		return a.Logout(ctx)
	case "products":
		return a.Products(ctx, args)
	case "low-stock":
		return a.LowStock(ctx)
	case "customers":
		return a.Customers(ctx, args)
	case "providers":
		return a.Providers(ctx, args)
	case "sales":
		return a.Sales(ctx, args)
	case "purchases":
		return a.Purchases(ctx, args)
	case "sale":
		return a.Sale(ctx)
	case "purchase":
		return a.Purchase(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
