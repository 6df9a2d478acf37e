package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/JosCraft/sisfarm-go/internal/api"
)

// Login authenticates against the backend and persists the token.
func (a *App) Login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		*username = a.prompt("username")
	}
	if *password == "" {
		*password = a.prompt("password")
	}

	resp, err := a.client.Login(ctx, api.LoginRequest{Username: *username, Password: *password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := a.session.Establish(resp.Token, resp.User.Username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s\n", resp.User.Username)
	return nil
}

// Logout discards the stored session.
func (a *App) Logout(context.Context) error {
	if err := a.session.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}
