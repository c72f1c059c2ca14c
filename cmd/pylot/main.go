package main

import (
	"fmt"
	"os"

	"github.com/pylotdev/pylot/cmd/pylot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
