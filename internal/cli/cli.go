package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/startable/startable-go/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("startable", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
StarTable - read, repair, and convert StarTable documents.

Usage:
  startable [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to an .hcl pipeline file. Alternatively, use -i/-o for a
    single-input conversion without a pipeline file.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline file.")
	pFlag := flagSet.String("p", "", "Path to the pipeline file (shorthand).")
	inputFlag := flagSet.String("i", "", "Input file to read (CSV or Excel).")
	outputFlag := flagSet.String("o", "", "Output file to write. Empty or '-' writes to stdout.")
	formatFlag := flagSet.String("to", "", "Output format. Options: 'json', 'csv' or 'excel'. Inferred from the output extension when empty.")
	sepFlag := flagSet.String("sep", "", "CSV cell separator. Defaults to ';'.")
	tolerantFlag := flagSet.Bool("tolerant", false, "Repair defective input instead of failing on it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	pipelinePath := ""
	if *pipelineFlag != "" {
		pipelinePath = *pipelineFlag
	} else if *pFlag != "" {
		pipelinePath = *pFlag
	} else if flagSet.NArg() > 0 {
		pipelinePath = flagSet.Arg(0)
	}
	slog.Debug("Pipeline path determined.", "path", pipelinePath)

	if pipelinePath == "" && *inputFlag == "" {
		slog.Debug("No pipeline or input provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	outputFormat := strings.ToLower(*formatFlag)
	switch outputFormat {
	case "", "json", "csv", "excel":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid output format: must be 'json', 'csv' or 'excel'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		PipelinePath: pipelinePath,
		InputPath:    *inputFlag,
		OutputPath:   *outputFlag,
		OutputFormat: outputFormat,
		Sep:          *sepFlag,
		Tolerant:     *tolerantFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
