package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/glitchdraft/draftsync/internal/app"
)

func main() {
	// Optional .env next to the binary; real deployments set env vars.
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ draftsync failed to start: %v", err)
	}
}
