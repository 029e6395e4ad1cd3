package main

import (
	"festmatch_backend/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; config falls back to the yaml file.
	_ = godotenv.Load()

	app.Run()
}
