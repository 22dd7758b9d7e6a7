package main

import (
	"os"

	"github.com/chriscorrea/campctl/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
