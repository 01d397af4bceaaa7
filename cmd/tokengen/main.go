// Package main mints and inspects bearer tokens for local development.
// Tokens are signed with the development key unless -key is given, so they
// are rejected by a production server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"jotter/internal/jwttoken"
	"jotter/internal/platform/config"
)

const defaultTokenTTL = 15 * time.Minute

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresAt string            `json:"expires_at"`
	Subject   string            `json:"subject"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	accessCmd := flag.NewFlagSet("access", flag.ExitOnError)
	accessSubject := accessCmd.String("subject", "alice@example.com", "Credential ID (email) the token is issued for")
	accessTTL := accessCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	accessKey := accessCmd.String("key", config.DevJWTSigningKey, "HS256 signing key")
	accessJSON := accessCmd.Bool("json", false, "Output as JSON")

	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	inspectKey := inspectCmd.String("key", config.DevJWTSigningKey, "HS256 signing key")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "access":
		_ = accessCmd.Parse(os.Args[2:])
		generateAccessToken(*accessSubject, *accessKey, *accessTTL, *accessJSON)
	case "inspect":
		_ = inspectCmd.Parse(os.Args[2:])
		if inspectCmd.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: tokengen inspect [-key KEY] <token>")
			os.Exit(1)
		}
		inspectToken(inspectCmd.Arg(0), *inspectKey)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate bearer tokens for the jotter API

WARNING: Tokens use the development signing key by default and will NOT
         work against a production server.

Usage:
  tokengen <command> [flags]

Commands:
  access    Generate an access token (JWT)
  inspect   Validate a token and print its claims

Examples:
  tokengen access -subject bob@example.com -ttl 1h
  tokengen access -json
  tokengen inspect eyJhbGciOi...`)
}

func generateAccessToken(subject, key string, ttl time.Duration, jsonOutput bool) {
	svc := jwttoken.NewJWTService(key, jwttoken.Issuer, ttl)
	token, expiresAt, err := svc.GenerateAccessToken(context.Background(), subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "Bearer",
			ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
			Subject:   subject,
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Subject:    %s\n", subject)
	fmt.Printf("Expires At: %s\n", expiresAt.UTC().Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/notes")
}

func inspectToken(token, key string) {
	claims, err := jwttoken.NewJWTService(key, jwttoken.Issuer, defaultTokenTTL).ValidateToken(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid token: %v\n", err)
		os.Exit(1)
	}
	printJSON(map[string]any{
		"subject":    claims.Subject,
		"jti":        claims.ID,
		"issuer":     claims.Issuer,
		"issued_at":  claims.IssuedAt.UTC().Format(time.RFC3339),
		"expires_at": claims.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
