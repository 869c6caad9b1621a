package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chronos",
	Short: "Chronos – weekly time registration from the command line",
	Long: `chronos logs working hours against the Chronos time-registration
backend, one week at a time. Hours beyond a standard 8h day are booked as
overtime, and days that fall short can be topped up with leave.

Settings live in ~/.chronos/config.json.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}
