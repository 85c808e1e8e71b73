package main

import (
	"os"

	fescmder "github.com/priyankark/fetch-event-source/cmd/fes"
)

func main() {
	cmd := fescmder.NewFesCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
