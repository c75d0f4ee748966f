package main

import (
	"os"

	suckercmder "github.com/papercomputeco/sucker/cmd/sucker"
)

func main() {
	cmd := suckercmder.NewSuckerCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
