package main

import (
	"os"

	"github.com/devbush/audio-transcriber/internal/adapters/cli"
)

func main() {
	os.Exit(cli.Execute())
}
