package main

import (
	"log"
	"os"

	"github.com/andreyxaxa/Image-Ingest/config"
	"github.com/andreyxaxa/Image-Ingest/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// Config
	if _, err := os.Stat(".env"); err == nil {
		if err = godotenv.Load(); err != nil {
			log.Fatalf("image-ingest - load .env: %s", err)
		}
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("image-ingest - config: %s", err)
	}

	// Run
	app.Run(cfg)
}
