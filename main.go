package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/baglist-backend/api"
	"github.com/rpupo63/baglist-backend/config"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/rpupo63/baglist-backend/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	c := config.New()
	settings := config.Load(c)

	db, err := database.Open(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := currentDB.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// Schema tooling runs instead of the server
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating query helpers...")
		if err := models.GenerateQueries(db, "./generated"); err != nil {
			log.Fatal().Err(err).Msg("Error generating query helpers")
		}
		return
	}
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		report, err := models.ColumnReport(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Error building column report")
		}
		models.LogColumnReport(report)
		return
	}

	if settings.AutoMigrate {
		if err := currentDB.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error migrating schema")
		}
	}
	if settings.SeedFacets {
		if err := database.SeedFacets(ctx, currentDB); err != nil {
			log.Fatal().Err(err).Msg("Error seeding facets")
		}
	}

	opts := []services.Option{services.WithURLBuilder(services.NewURLBuilder(c))}

	var secrets *config.SecretsClient
	if settings.MediaBucket != "" || settings.JWTSecretName != "" {
		awsCfg, err := config.LoadAWSConfig(ctx, settings.AWSRegion)
		if err != nil {
			log.Fatal().Err(err).Msg("Error loading AWS configuration")
		}
		if settings.MediaBucket != "" {
			opts = append(opts, services.WithMedia(
				services.NewS3Presigner(awsCfg, settings.MediaBucket, settings.MediaPublicURL, settings.MediaPresignTTL)))
		}
		if settings.JWTSecretName != "" {
			secrets = config.NewSecretsClientFromConfig(awsCfg)
		}
	}

	jwtSecret, err := config.ResolveJWTSecret(ctx, settings, secrets)
	if err != nil {
		log.Fatal().Err(err).Msg("Error resolving JWT secret")
	}

	service := services.New(currentDB, opts...)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(settings, service, api.NewTokenVerifier(jwtSecret, settings.JWTIssuer), currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(settings.ShutdownTimeout)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
