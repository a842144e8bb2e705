package main

import (
	"os"

	"github.com/carecompass/funnelkit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
