package main

import (
	"os"

	"github.com/waste3d/composecheck/cmd/composecheck/cli"
)

func main() {
	os.Exit(cli.Execute())
}
