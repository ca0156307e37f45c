package main

import (
	"log"

	"reviewexplorer/desktop/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("reviewexplorer: %v", err)
	}
}
