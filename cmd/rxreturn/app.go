package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rxreturn/rxreturn-go/client"
	"github.com/rxreturn/rxreturn-go/internal/cli"
	"github.com/rxreturn/rxreturn-go/internal/config"
	"github.com/rxreturn/rxreturn-go/internal/credentials"
	"github.com/rxreturn/rxreturn-go/pkg/logger"
)

// app wires config, credentials, and the API client for command handlers.
type app struct {
	cfg    *config.Config
	client *client.Client
	stdin  *bufio.Reader
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := credentials.NewFileStore(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	c, err := client.New(client.Config{
		BaseURL:     cfg.BaseURL,
		Credentials: store,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		Logger: logger.New(logger.Config{
			Service: "rxreturn-cli",
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	})
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, client: c, stdin: bufio.NewReader(os.Stdin)}, nil
}

// prompt reads one trimmed line from stdin.
func (a *app) prompt(label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := a.stdin.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// call runs fn behind a spinner and reports the outcome.
func call[T any](label string, fn func() (T, error)) (T, error) {
	spinner := cli.NewSpinner(label)
	spinner.Start()
	out, err := fn()
	if err != nil {
		spinner.Error(err.Error())
		return out, err
	}
	spinner.Stop()
	return out, nil
}

func (a *app) cmdSignIn(ctx context.Context, args []string) error {
	var email string
	var err error
	if len(args) > 0 {
		email = args[0]
	} else if email, err = a.prompt("Email"); err != nil {
		return err
	}
	password, err := a.prompt("Password")
	if err != nil {
		return err
	}

	user, err := call("Signing in...", func() (*client.User, error) {
		return a.client.Auth().SignIn(ctx, email, password)
	})
	if err != nil {
		return err
	}
	cli.Success(fmt.Sprintf("Signed in as %s %s (%s)", user.FirstName, user.LastName, user.PharmacyName))
	return nil
}

func (a *app) cmdSignUp(ctx context.Context, _ []string) error {
	req := client.SignUpRequest{}
	fields := []struct {
		label string
		dst   *string
	}{
		{"Email", &req.Email},
		{"Password", &req.Password},
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
		{"Pharmacy name", &req.PharmacyName},
		{"Phone (optional)", &req.Phone},
	}
	for _, f := range fields {
		v, err := a.prompt(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	user, err := call("Creating account...", func() (*client.User, error) {
		return a.client.Auth().SignUp(ctx, req)
	})
	if err != nil {
		return err
	}
	cli.Success(fmt.Sprintf("Account created for %s", user.Email))
	return nil
}

func (a *app) cmdSignOut(ctx context.Context) error {
	if err := a.client.Auth().SignOut(ctx); err != nil {
		// Credentials are cleared regardless; the server error is advisory.
		cli.Warning(fmt.Sprintf("Server sign-out failed: %v", err))
	}
	cli.Success("Signed out")
	return nil
}

func (a *app) cmdRefresh(ctx context.Context) error {
	spinner := cli.NewSpinner("Refreshing token...")
	spinner.Start()
	token, err := a.client.Auth().RefreshAccessToken(ctx)
	if err != nil {
		spinner.Error(err.Error())
		return err
	}
	if token == "" {
		spinner.Stop()
		cli.Warning("No valid refresh token; credentials cleared. Sign in again.")
		return nil
	}
	spinner.Success("Token refreshed")
	return nil
}

func (a *app) cmdWhoAmI() error {
	user, ok := a.client.Auth().CurrentUser()
	if !ok {
		cli.Warning("Not signed in")
		return nil
	}
	fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	fmt.Printf("Pharmacy: %s (%s)\n", user.PharmacyName, user.PharmacyID)
	fmt.Printf("Session:  %s\n", a.client.Auth().State())
	return nil
}

func (a *app) cmdCompletion(args []string) error {
	if len(args) > 0 && args[0] == "--install" {
		return cli.InstallBashCompletion()
	}
	cli.PrintBashCompletion()
	return nil
}
