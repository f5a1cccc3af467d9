package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/orgrinrt/tomlfuse/internal/version"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
)

var (
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "tomlfuse",
		Short: "Bind TOML values into generated Go constants",
		Long: `tomlfuse parses a TOML document, applies namespace blocks of
include/exclude patterns and aliases, and emits the selected values as a
generated Go source file of typed constants. Intended for go:generate.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. Engine errors are logged with their code
// and details before the non-zero exit.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logger := logging.GetLogger("cmd")
		evt := logger.Error().Str("code", string(fuseerr.CodeOf(err)))
		for k, v := range fuseerr.DetailsOf(err) {
			evt = evt.Interface(k, v)
		}
		evt.Msg(err.Error())
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inspectCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tomlfuse version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
