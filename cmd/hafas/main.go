package main

import (
	"os"

	"github.com/r9s-ai/hafas-rest-client/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
