package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "escript",
	Short: "A safe ES6-subset interpreter for embedding in Go hosts",
	Long: `escript runs scripts written in a safe subset of ECMAScript 6
under hard per-execution resource bounds: operation count, allocated
memory, wall-clock time, and call-stack depth.

It never performs I/O on its own; scripts only observe what a host
explicitly registers as a global.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
