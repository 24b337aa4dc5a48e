package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/es6sandbox/internal/lexer"
	"github.com/cwbudde/es6sandbox/internal/parser"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script and print its AST",
	Long: `Parse a script and print a textual rendering of its Abstract Syntax Tree.

Examples:
  escript parse script.js
  escript parse -e "1 + 2 * 3"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(filename, input)
	p := parser.New(l, filename)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Println(e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	fmt.Print(program.String())
	return nil
}
