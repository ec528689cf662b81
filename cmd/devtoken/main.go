// Command devtoken mints a bearer token for an existing profile, for local
// development and manual testing against the API.
//
//	go run ./cmd/devtoken -profile 0b1c7a52-3f0e-4c1b-9d0e-2a6f8c1d0001
//
// It loads configuration (including .env) exactly like the server, so the
// token is signed with the same JWT_SECRET and lives for TOKEN_TTL.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/auth"
	"github.com/umoc/basecamp/backend/internal/config"
)

func main() {
	profile := flag.String("profile", "", "profile id to mint a token for")
	flag.Parse()

	id, err := uuid.Parse(*profile)
	if err != nil {
		slog.Error("invalid -profile", "value", *profile, "error", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(id)
	if err != nil {
		slog.Error("generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
