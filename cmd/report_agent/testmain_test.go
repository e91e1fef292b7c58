package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain runs before all tests and loads .env if available
func TestMain(m *testing.M) {
	// Missing .env is fine in CI
	_ = godotenv.Load()

	os.Exit(m.Run())
}
