package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sahilchouksey/go-institutions/config"
	"github.com/sahilchouksey/go-institutions/utils/auth"
)

// Issues an access token for operators. Users are managed outside this
// service, so there is no login endpoint to obtain one from.
func main() {
	userID := flag.Uint("user", 0, "user ID to embed in the token")
	username := flag.String("username", "admin", "username to embed in the token")
	role := flag.String("role", auth.RoleAdmin, "role claim")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	manager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: *expiry,
		Issuer: env.JWT_ISSUER,
	})

	token, jti, err := manager.GenerateAccessToken(*userID, *username, *role)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "jti=%s expires=%s\n", jti, time.Now().Add(*expiry).Format(time.RFC3339))
	fmt.Println(token)
}
