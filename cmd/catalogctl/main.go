package main

import (
	"os"

	"github.com/toyfactory/toyfactory/backend/go-services/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
