// Command farmapi runs the in-memory fixture backend for local
// development of the sisfarm client.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/JosCraft/sisfarm-go/internal/farmtest"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	server := farmtest.NewServer(farmtest.Options{Logger: logger, Seed: true})

	logger.Info("fixture backend listening", slog.String("addr", *addr))
	logger.Info("seeded operator", slog.String("username", "admin"), slog.String("password", "admin123"))
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("serve", slog.Any("error", err))
		os.Exit(1)
	}
}
