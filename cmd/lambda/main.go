package main

import (
	"log"

	"github.com/andreyxaxa/Image-Ingest/config"
	"github.com/andreyxaxa/Image-Ingest/internal/app"
)

func main() {
	// Lambda gets its configuration from the function environment only
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("image-ingest lambda - config: %s", err)
	}

	app.RunLambda(cfg)
}
