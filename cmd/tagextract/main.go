package main

import (
	"os"

	"github.com/dgallion1/tagextract/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
