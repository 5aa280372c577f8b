package main

import (
	"os"

	"github.com/arthur-debert/envup/cmd/envup"
)

func main() {
	os.Exit(envup.Execute())
}
