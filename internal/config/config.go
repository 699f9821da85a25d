package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from its environment.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// DatabaseURL is the postgres DSN.
	DatabaseURL string

	// FilesDir is where the disk document store keeps uploaded resumes.
	FilesDir string

	// PublicBaseURL prefixes the locators handed back for stored documents.
	PublicBaseURL string

	// AMQPURL enables the application-event publisher when non-empty.
	AMQPURL string

	// ActorHeader is the header the upstream identity layer sets with the
	// authenticated user id.
	ActorHeader string
}

// Load reads .env if present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:          getenv("ADDR", ":8080"),
		DatabaseURL:   getenv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=joblane port=5432 sslmode=disable"),
		FilesDir:      getenv("FILES_DIR", "./data/files"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		AMQPURL:       os.Getenv("AMQP_URL"),
		ActorHeader:   getenv("ACTOR_HEADER", "X-Auth-User"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
