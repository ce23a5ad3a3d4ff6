// Command rosterctl runs one aggregation pass against the configured roster
// source and prints, filters or exports the result.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	root, cleanup := newRootCmd()
	err := root.ExecuteContext(context.Background())
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}
