package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/talenthub/hrm-backend-go/internal/config"
	"github.com/talenthub/hrm-backend-go/internal/pkg/jwt"
)

// tokengen mints an access token signed with the configured secret,
// for local development and API testing.
func main() {
	userID := flag.String("user", "", "user_id claim")
	employeeID := flag.String("employee", "", "employee_id claim (required)")
	role := flag.String("role", "employee", "role claim: admin or employee")
	flag.Parse()

	if *employeeID == "" {
		fmt.Fprintln(os.Stderr, "usage: tokengen -employee <id> [-user <id>] [-role admin|employee]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := JWTService.GenerateAccessToken(*userID, *employeeID, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires:", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
