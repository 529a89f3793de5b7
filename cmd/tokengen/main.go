// Package main provides a CLI tool for generating test tokens for the
// enrolld operator API. These tokens use dev signing keys and will NOT
// work in production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"enrolld/internal/operator"
)

const (
	// Dev signing key - matches config.go when ENROLLD_JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	// Default admin token for local/dev environments
	devAdminToken = "dev-admin-token"

	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in,omitempty"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	operatorCmd := flag.NewFlagSet("operator", flag.ExitOnError)
	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)

	// Operator token flags
	operatorID := operatorCmd.String("operator-id", "dev-operator", "Operator identifier embedded in the token")
	operatorRole := operatorCmd.String("role", "reviewer", "Operator role")
	operatorTTL := operatorCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	operatorKey := operatorCmd.String("signing-key", devSigningKey, "HS256 signing key (must match the server's)")
	operatorJSON := operatorCmd.Bool("json", false, "Output as JSON")

	// Admin token flags
	adminJSON := adminCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "operator":
		operatorCmd.Parse(os.Args[2:])
		generateOperatorToken(*operatorID, *operatorRole, *operatorTTL, *operatorKey, *operatorJSON)
	case "admin":
		adminCmd.Parse(os.Args[2:])
		showAdminToken(*adminJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate test tokens for the enrolld operator API

WARNING: These tokens use dev signing keys and will NOT work in production.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  operator  Generate an operator bearer token (JWT)
  admin     Show the admin API token

Examples:
  # Generate an operator token with defaults
  tokengen operator

  # Generate a token for a named operator with a custom TTL
  tokengen operator -operator-id "alice" -ttl 1h

  # Get admin token for the X-Admin-Token header
  tokengen admin

  # Output as JSON
  tokengen operator -json

Use "tokengen <command> -h" for more information about a command.`)
}

func generateOperatorToken(operatorID, role string, ttl time.Duration, signingKey string, jsonOutput bool) {
	svc := operator.NewTokenService(signingKey, ttl)

	token, err := svc.Generate(context.Background(), operatorID, role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		output := tokenOutput{
			Token:     token,
			Type:      "operator_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"operator_id": operatorID,
				"role":        role,
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		}
		printJSON(output)
	} else {
		fmt.Println("Operator Token (JWT)")
		fmt.Println("====================")
		fmt.Printf("Operator ID: %s\n", operatorID)
		fmt.Printf("Role:        %s\n", role)
		fmt.Printf("Expires In:  %s\n", ttl)
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/admin/subjects")
	}
}

func showAdminToken(jsonOutput bool) {
	if jsonOutput {
		output := tokenOutput{
			Token: devAdminToken,
			Type:  "admin_token",
			Usage: map[string]string{
				"header": "X-Admin-Token: " + devAdminToken,
				"note":   "Works when ENROLLD_ADMIN_TOKEN is not overridden",
			},
		}
		printJSON(output)
	} else {
		fmt.Println("Admin API Token")
		fmt.Println("===============")
		fmt.Printf("Token: %s\n", devAdminToken)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  curl -H \"X-Admin-Token: " + devAdminToken + "\" http://localhost:8080/admin/subjects")
		fmt.Println()
		fmt.Println("Note: This token works when ENROLLD_ADMIN_TOKEN is not overridden")
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
