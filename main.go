package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/vincitamore/tui-blog-backend/api"
	"github.com/vincitamore/tui-blog-backend/config"
	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/services"
	"github.com/vincitamore/tui-blog-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	ctx := context.Background()
	store, err := storage.New(ctx, c)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Storage driver: %s\n", config.GetString(c, config.KeyStorageDriver, storage.DriverMemory))

	currentDB := database.New(store)

	seedAdminCredentials(ctx, currentDB, c)

	sessionTTL := config.GetHours(c, config.KeySessionTTL, 24)
	scheduler := startMaintenance(currentDB, c, sessionTTL)
	defer scheduler.Stop()

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// seedAdminCredentials stores the hash of the configured admin password on
// first boot. Stored credentials always win over the environment; rotations
// happen through the password-change endpoint.
func seedAdminCredentials(ctx context.Context, db database.Database, c map[string]string) {
	creds, err := db.CredentialRepo().Load(ctx)
	if err != nil {
		fmt.Printf("Warning: could not read admin credentials: %v\n", err)
		return
	}
	if creds != nil {
		return
	}

	password := config.GetString(c, config.KeyAdminPassword, "")
	if password == "" {
		fmt.Println("Warning: ADMIN_PASSWORD not set and no stored credentials; admin login is disabled")
		return
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		fmt.Printf("Error hashing admin password: %v\n", err)
		os.Exit(1)
	}
	if err := db.CredentialRepo().SetPasswordHash(ctx, hash, time.Now().UTC()); err != nil {
		fmt.Printf("Warning: could not store admin credentials: %v\n", err)
		return
	}
	fmt.Println("Seeded admin credentials from environment")
}

// startMaintenance schedules the periodic session sweep and comment metadata
// reconciliation, and runs one pass immediately so a fresh deployment gets a
// populated dashboard without waiting for the first tick.
func startMaintenance(db database.Database, c map[string]string, sessionTTL time.Duration) *cron.Cron {
	spec := config.GetString(c, config.KeyCronSpec, "@hourly")

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(spec, func() {
		runMaintenance(db, sessionTTL)
	}); err != nil {
		fmt.Printf("Error scheduling maintenance %q: %v\n", spec, err)
		os.Exit(1)
	}
	scheduler.Start()
	fmt.Printf("Maintenance scheduled: %s\n", spec)

	go runMaintenance(db, sessionTTL)

	return scheduler
}

func runMaintenance(db database.Database, sessionTTL time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := db.SessionRepo().Sweep(ctx, time.Now(), sessionTTL)
	if err != nil {
		log.Warn().Err(err).Msg("session sweep failed")
	} else if removed > 0 {
		log.Info().Int("removed", removed).Msg("swept expired admin sessions")
	}

	meta, err := services.ReconcileCommentsMeta(ctx, db)
	if err != nil {
		log.Warn().Err(err).Msg("comment metadata reconciliation failed")
		return
	}
	log.Info().
		Int("totalComments", meta.TotalComments).
		Int("posts", len(meta.CommentsByPost)).
		Msg("comment metadata reconciled")
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
