package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/startable/startable-go/internal/app"
	"github.com/startable/startable-go/internal/cli"
	"github.com/startable/startable-go/internal/hcl"
)

// main is the entrypoint for the startable application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Data output goes to outW, logs and diagnostics to errW.
func run(outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, errW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors; recover here to report them
	// as a regular error with a clean exit.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	startableApp := app.NewApp(outW, errW, appConfig, loader)

	return startableApp.Run(context.Background())
}
