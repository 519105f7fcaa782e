package main

import (
	"log"

	"github.com/MrSnakeDoc/qrgen/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ qrgen failed to start: %v", err)
	}
}
