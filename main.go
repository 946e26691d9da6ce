package main

import (
	"context"
	"os"

	"github.com/forklone/forklone/cmd"
)

func main() {
	if err := cmd.NewCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
