package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gemlens/gemlens/internal/cli"
)

func main() {
	// A .env beside the binary is optional.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
