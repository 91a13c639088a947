package cli

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/makegen/internal/app"
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

// flags are the raw command-line values before validation.
type flags struct {
	workspace string
	outputDir string
	projects  []string
	logFormat string
	logLevel  string
	dryRun    bool
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly (help or version
// was printed), or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var f flags
	var config *app.Config

	cmd := &cobra.Command{
		Use:   "makegen [flags] [WORKSPACE_PATH]",
		Short: "Generate GNU Make scripts for a C/C++ workspace",
		Long: `makegen - generates one GNU Make script per native project of a workspace.

WORKSPACE_PATH is a single .hcl file or a directory containing .hcl files.
Each script is written next to its project as <project>.makefile.`,
		Version:       app.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			path := f.workspace
			if path == "" && len(positional) > 0 {
				path = positional[0]
			}
			slog.Debug("Workspace path determined.", "path", path)
			if path == "" {
				slog.Debug("No workspace path provided, printing usage and exiting.")
				return cmd.Help()
			}

			cfg, err := validate(path, f)
			if err != nil {
				return err
			}
			config = cfg
			return nil
		},
	}
	if args == nil {
		// cobra falls back to os.Args on a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	fs := cmd.Flags()
	fs.StringVarP(&f.workspace, "workspace", "w", "", "Path to the workspace file or directory.")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "Write every script into this directory instead of the project roots.")
	fs.StringSliceVarP(&f.projects, "project", "p", nil, "Only generate the named projects (repeatable or comma-separated).")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Print the scripts to stdout instead of writing files.")

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func validate(path string, f flags) (*app.Config, error) {
	logFormat := strings.ToLower(f.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(f.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		WorkspacePath: path,
		OutputDir:     f.outputDir,
		Projects:      f.projects,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		DryRun:        f.dryRun,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, nil
}
