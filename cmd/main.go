package main

import (
	"log"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/app"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/app/config"
)

func main() {
	cfg := config.MustLoad()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application stopped with error: %v", err)
	}
}
