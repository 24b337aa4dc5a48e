package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/es6sandbox/pkg/escript"
)

var (
	runEval         string
	runMaxOps       int64
	runMaxMemBytes  int64
	runTimeoutMs    int64
	runMaxCallDepth int
	runLimitsFile   string
	runVerbose      bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script under the sandbox's resource limits",
	Long: `Run a script and print its completion value.

Resource limits can be set individually via flags or loaded in bulk from
a YAML file with --limits-file:

  max_ops: 5000000
  max_mem_bytes: 4194304
  timeout_ms: 2000
  max_call_depth: 200

Flags override values loaded from --limits-file.

Examples:
  escript run script.js
  escript run -e "1 + 2"
  escript run --max-ops 1000 --timeout-ms 500 script.js
  escript run --limits-file limits.yaml --verbose script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "evaluate inline code instead of reading from a file")
	runCmd.Flags().Int64Var(&runMaxOps, "max-ops", 0, "operation budget (0: use default or limits-file)")
	runCmd.Flags().Int64Var(&runMaxMemBytes, "max-mem", 0, "memory budget in bytes (0: use default or limits-file)")
	runCmd.Flags().Int64Var(&runTimeoutMs, "timeout-ms", 0, "wall-clock budget in milliseconds (0: use default or limits-file)")
	runCmd.Flags().IntVar(&runMaxCallDepth, "max-depth", 0, "call-stack depth budget (0: use default or limits-file)")
	runCmd.Flags().StringVar(&runLimitsFile, "limits-file", "", "YAML file with max_ops/max_mem_bytes/timeout_ms/max_call_depth")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "print execution stats after running")
}

// limitsFile is the YAML shape --limits-file loads, field names matching
// spec §6 EvalOpts exactly so a host's own config can be reused verbatim.
type limitsFile struct {
	MaxOps       int64 `yaml:"max_ops"`
	MaxMemBytes  int64 `yaml:"max_mem_bytes"`
	TimeoutMs    int64 `yaml:"timeout_ms"`
	MaxCallDepth int   `yaml:"max_call_depth"`
}

func runRun(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(runEval, args)
	if err != nil {
		return err
	}

	var loaded limitsFile
	if runLimitsFile != "" {
		data, err := os.ReadFile(runLimitsFile)
		if err != nil {
			return fmt.Errorf("failed to read limits file %s: %w", runLimitsFile, err)
		}
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("failed to parse limits file %s: %w", runLimitsFile, err)
		}
	}

	var evalOpts []escript.EvalOption
	if v := firstNonZero(runMaxOps, loaded.MaxOps); v != 0 {
		evalOpts = append(evalOpts, escript.WithMaxOps(v))
	}
	if v := firstNonZero(runMaxMemBytes, loaded.MaxMemBytes); v != 0 {
		evalOpts = append(evalOpts, escript.WithMaxMemBytes(v))
	}
	if v := firstNonZero(runTimeoutMs, loaded.TimeoutMs); v != 0 {
		evalOpts = append(evalOpts, escript.WithTimeout(time.Duration(v)*time.Millisecond))
	}
	if v := firstNonZero(int64(runMaxCallDepth), int64(loaded.MaxCallDepth)); v != 0 {
		evalOpts = append(evalOpts, escript.WithMaxCallDepth(int(v)))
	}
	evalOpts = append(evalOpts, escript.WithStdout(os.Stdout))

	script, err := escript.Parse(input, escript.WithFilename(filename))
	if err != nil {
		return err
	}

	result, err := script.EvalAndGetDetails(evalOpts...)
	if runVerbose {
		fmt.Fprintf(os.Stderr, "ops: %d, allocated: %s\n", result.Stats.Ops, humanize.Bytes(uint64(result.Stats.AllocatedBytes)))
	}
	if err != nil {
		return err
	}

	if !result.Result.IsUndefined() {
		fmt.Println(result.Result.String())
	}
	return nil
}

func firstNonZero(a, b int64) int64 {
	if a != 0 {
		return a
	}
	return b
}
