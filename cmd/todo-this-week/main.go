// Package main is the entry point for the todo-this-week CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

// newRootCommand is replaced in tests.
var newRootCommand = cli.NewRootCommand

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Create dependency injection container
	container, err := app.New("", os.Stderr)
	if err != nil {
		// Allow help and version output even when the config is broken
		if canRunWithoutContainer(os.Args[1:]) {
			return execute(newRootCommand(nil, version))
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	return execute(newRootCommand(container, version))
}

func execute(root *cobra.Command) error {
	return root.ExecuteContext(context.Background())
}

func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return true
	}
	if args[0] == "help" {
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
