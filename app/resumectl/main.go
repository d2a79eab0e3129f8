package main

import (
	"context"
	"os"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
