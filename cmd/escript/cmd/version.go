package cmd

import (
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display detailed version information including commit hash and build date.`,
	Run: func(cmd *cobra.Command, args []string) {
		v := Version
		if !semver.IsValid("v" + v) {
			fmt.Printf("escript version %s (non-semver build tag)\n", v)
		} else {
			fmt.Printf("escript version %s\n", v)
		}
		fmt.Printf("Git Commit: %s\n", GitCommit)
		fmt.Printf("Build Date: %s\n", BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
