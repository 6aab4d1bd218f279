package main

import (
	"context"
	"fmt"
	"os"

	"task-manager/internal/cli"
)

func main() {
	root := cli.NewRootCommand(newLoader(getEnvironment()), cli.Build)

	if err := root.ExecuteContext(context.Background()); err != nil {
		handler := cli.NewErrorHandler()
		fmt.Fprintf(os.Stderr, "Error: %v\n", handler.HandleSimple(err))
		os.Exit(handler.ExitCode(err))
	}
}
