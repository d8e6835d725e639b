// Command rxreturn is a terminal front-end for the RxReturn platform: sign
// in, browse inventory and marketplace deals, manage the cart, and run the
// return-optimization wizard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func usage() {
	fmt.Fprintf(os.Stderr, `rxreturn - RxReturn pharmacy returns CLI

Usage:
  rxreturn <command> [arguments]

Auth:
  signin <email>            Sign in (password read from stdin)
  signup                    Register a pharmacy account
  signout                   Sign out and clear stored credentials
  refresh                   Force a silent token refresh
  whoami                    Show the cached signed-in user

Resources:
  dashboard                 Show the earnings summary
  earnings [period]         Show earnings history
  documents list|get|delete Manage documents
  inventory list|metrics    Browse inventory
  deals [search]            Browse marketplace deals
  cart show|add|update|remove|clear|checkout
  orders [status]           List placed orders
  optimize recommendations|suggest|show|accept|decline
  packages [status]         List return packages
  lists ...                 Manage product lists
  settings                  Show account settings
  subscription show|plans|cancel

Other:
  completion [--install]    Print or install bash completion

Environment:
  RXRETURN_BASE_URL, RXRETURN_CREDENTIALS_FILE, RXRETURN_TIMEOUT,
  RXRETURN_LOG_LEVEL, RXRETURN_LOG_FORMAT,
  RXRETURN_CONFIG (YAML file overlaid on the environment)
`)
}

func run(args []string) int {
	flag.Usage = usage
	if len(args) == 0 {
		usage()
		return 2
	}

	app, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rxreturn: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cmd, rest := args[0], args[1:]
	if err := app.dispatch(ctx, cmd, rest); err != nil {
		fmt.Fprintf(os.Stderr, "rxreturn: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signin":
		return a.cmdSignIn(ctx, args)
	case "signup":
		return a.cmdSignUp(ctx, args)
	case "signout":
		return a.cmdSignOut(ctx)
	case "refresh":
		return a.cmdRefresh(ctx)
	case "whoami":
		return a.cmdWhoAmI()
	case "dashboard":
		return a.cmdDashboard(ctx)
	case "earnings":
		return a.cmdEarnings(ctx, args)
	case "documents":
		return a.cmdDocuments(ctx, args)
	case "inventory":
		return a.cmdInventory(ctx, args)
	case "deals":
		return a.cmdDeals(ctx, args)
	case "cart":
		return a.cmdCart(ctx, args)
	case "orders":
		return a.cmdOrders(ctx, args)
	case "optimize":
		return a.cmdOptimize(ctx, args)
	case "packages":
		return a.cmdPackages(ctx, args)
	case "lists":
		return a.cmdLists(ctx, args)
	case "settings":
		return a.cmdSettings(ctx)
	case "subscription":
		return a.cmdSubscription(ctx, args)
	case "completion":
		return a.cmdCompletion(args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
