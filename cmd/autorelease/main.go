package main

import (
	"os"

	"github.com/ariel-frischer/autorelease/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
