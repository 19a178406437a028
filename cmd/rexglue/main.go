// Command rexglue is the recompilation toolkit CLI.
//
//	rexglue codegen <config.json>   Generate C++ code from an analyzed image
//	rexglue init                    Initialize a new project
//	rexglue recompile-tests         Generate runtime tests from PPC binaries
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/rexlab/rexglue/log"
)

var (
	flagForce                   bool
	flagEnableExceptionHandlers bool
	flagLogLevel                string
	flagLogFile                 string
)

func main() {
	root := &cobra.Command{
		Use:           "rexglue",
		Short:         "ReXGlue - Xbox 360 Recompilation Toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.BoolVar(&flagForce, "force", false, "generate output even if validation errors occur")
	pf.BoolVar(&flagEnableExceptionHandlers, "enable_exception_handlers", false,
		"enable generation of SEH exception handler code")
	pf.StringVar(&flagLogLevel, "log_level", env.Str("REXGLUE_LOG_LEVEL", "info"),
		"logging level (trace, debug, info, warn, error)")
	pf.StringVar(&flagLogFile, "log_file", env.Str("REXGLUE_LOG_FILE", ""),
		"also write logs to this file")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !log.SetLevel(flagLogLevel) {
			logMain.Warn("Unknown log level %q, keeping default", flagLogLevel)
		}
		return log.SetOutputFile(flagLogFile)
	}

	root.AddCommand(newCodegenCommand())
	root.AddCommand(newInitCommand())
	root.AddCommand(newRecompileTestsCommand())

	logMain.Info("ReXGlue v0.1.0 - Xbox 360 Recompilation Toolkit")

	if err := root.Execute(); err != nil {
		logMain.Error("Operation failed: %v", err)
		os.Exit(1)
	}
	logMain.Info("Operation completed successfully")
}

var logMain = log.New("rexglue")
