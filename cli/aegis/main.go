package main

import (
	"os"

	aegiscmder "github.com/papercomputeco/aegis/cmd/aegis"
)

func main() {
	cmd := aegiscmder.NewAegisCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
