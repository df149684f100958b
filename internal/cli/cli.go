package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/recast/internal/app"
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
	flagSet := flag.NewFlagSet("recast", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
recast - converts untyped JSON into schema-validated, typed records.

Usage:
  recast [options] [SCHEMA_PATH]

Arguments:
  SCHEMA_PATH
    Path to a single .hcl schema file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	schemaFlag := flagSet.String("schema", "", "Path to the schema file or directory.")
	sFlag := flagSet.String("s", "", "Path to the schema file or directory (shorthand).")
	recordFlag := flagSet.String("record", "", "Record type to convert the input against.")
	rFlag := flagSet.String("r", "", "Record type to convert the input against (shorthand).")
	inputFlag := flagSet.String("input", "", "Path to the JSON input file. Reads stdin when omitted or '-'.")
	listFlag := flagSet.Bool("list", false, "List declared record types and exit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	schemaPath := ""
	if *schemaFlag != "" {
		schemaPath = *schemaFlag
	} else if *sFlag != "" {
		schemaPath = *sFlag
	} else if flagSet.NArg() > 0 {
		schemaPath = flagSet.Arg(0)
	}

	if schemaPath == "" {
		slog.Debug("No schema path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	record := *recordFlag
	if record == "" {
		record = *rFlag
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

	config, err := app.NewConfig(app.Config{
		SchemaPath: schemaPath,
		Record:     record,
		InputPath:  *inputFlag,
		List:       *listFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
