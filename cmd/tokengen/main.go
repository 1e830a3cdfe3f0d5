// Command tokengen prints a bearer token for a user at their current session
// version. Account management lives outside this service; this is how
// operators and developers obtain tokens.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/auth"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/config"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/kv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	userID := flag.String("user", "", "user id to issue the token for")
	role := flag.String("role", string(domain.RoleCustomer), "customer or admin")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	version, err := kv.NewRedisStore(client).Version(ctx, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read session version")
	}

	token, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL).Issue(*userID, domain.Role(*role), version)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to issue token")
	}
	fmt.Println(token)
}
