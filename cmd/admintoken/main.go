// Command admintoken prints a JWT accepted by the admin endpoints.
//
//	admintoken -sub alice -ttl 30m
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/flight-explorer/internal/config"
	"github.com/iliyamo/flight-explorer/internal/middleware"
	"github.com/iliyamo/flight-explorer/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: .env not loaded: %v", err)
	}
	auth := config.LoadAuthConfig()

	sub := flag.String("sub", "operator", "token subject")
	role := flag.String("role", middleware.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", auth.AccessTTL, "token lifetime")
	flag.Parse()

	if auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	tok, err := utils.NewAccessToken(auth.JWTSecret, *sub, *role, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
