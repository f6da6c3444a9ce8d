// Command seed creates the default administrator and user accounts.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/service"
	mongodb "github.com/feedbackhub/portal/internal/infrastructure/db/mongo"
	"github.com/feedbackhub/portal/pkg/logger"
)

type seedConfig struct {
	MongoURI string `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB,      default=feedback_portal"`
	Password string `env:"SEED_PASSWORD, default=password@123"`
}

type account struct {
	name  string
	email string
	role  string
}

var accounts = []account{
	{name: "Admin User", email: "admin@example.com", role: domain.RoleAdmin},
	{name: "Regular User", email: "user@example.com", role: domain.RoleUser},
}

func main() {
	log := logger.Init(logger.Options{Pretty: true, Service: "feedback-seed"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer client.Disconnect(context.Background())

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}

	failed := false
	for _, a := range accounts {
		created, err := seedAccount(ctx, users, a, cfg.Password)
		switch {
		case err != nil:
			failed = true
			log.Error().Err(err).Str("email", a.email).Msg("seed failed")
		case created:
			log.Info().Str("email", a.email).Str("role", a.role).Msg("account created")
		default:
			log.Info().Str("email", a.email).Msg("account already exists")
		}
	}
	if failed {
		os.Exit(1)
	}
}

// seedAccount creates a unless an account with its email already exists.
func seedAccount(ctx context.Context, users ports.UserRepository, a account, password string) (bool, error) {
	if _, err := users.FindByEmail(ctx, a.email); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return false, err
	}
	_, err = users.Create(ctx, &domain.User{
		Name:         a.name,
		Email:        a.email,
		PasswordHash: hash,
		Role:         a.role,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	return err == nil, err
}
