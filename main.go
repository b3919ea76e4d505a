package main

import (
	"github.com/joho/godotenv"

	"github.com/theirongolddev/khata/cmd"
)

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cmd.Execute()
}
