// Package main is a terminal front end for the jotter API. Each subcommand
// drives one client form: it prompts for missing input, masks passwords and
// prints the form's outcome.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"jotter/internal/client"
	"jotter/internal/platform/config"
)

type cli struct {
	api     *client.Client
	in      *bufio.Reader
	out     io.Writer
	session string
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.ClientFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{
		api:     client.New(cfg),
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		session: sessionPath(),
	}
	if err := c.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return c.login(ctx, args)
	case "logout":
		return clearSession(c.session)
	case "register":
		return c.register(ctx, args)
	case "change-password":
		return c.changePassword(ctx, args)
	case "forgot-password":
		return c.forgotPassword(ctx, args)
	case "notes":
		return c.notes(ctx, args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage() {
	fmt.Println(`notesctl - jotter command line client

Usage:
  notesctl <command> [flags]

Commands:
  login             Sign in and store the session token
  logout            Forget the stored session token
  register          Create an account
  change-password   Change the signed-in account's password
  forgot-password   Request a reset token, then set a new password
  notes             list | get <id> | create | delete <id>

Environment:
  JOTTER_SERVER_URL      API base URL (default http://localhost:8080)
  JOTTER_CLIENT_TIMEOUT  Request timeout (default 10s)
  JOTTER_TOKEN           Bearer token; overrides the stored session`)
}
