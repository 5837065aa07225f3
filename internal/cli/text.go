package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"nlon/internal/adapter/output"
	"nlon/internal/domain"
)

var (
	textFormat string
	textStdin  bool
)

var textCmd = &cobra.Command{
	Use:   "text [line...]",
	Short: "Show the features of individual lines",
	Long: `Compute the feature row of each argument, or of each line read from stdin
with --stdin, and print them.

Examples:
  nlon text "if (x) {" "Sounds good, thanks :)"
  nlon text --tokenizer both "This is."          # One table per tokenizer
  tail -n 20 build.log | nlon text --stdin --format csv`,
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)
	textCmd.Flags().StringVarP(&textFormat, "format", "f", output.FormatTable, "output format: csv, json, table")
	textCmd.Flags().BoolVar(&textStdin, "stdin", false, "read lines from stdin")
	addGeneratorFlags(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	applyGeneratorOverrides(cmd, cfg)

	lines := args
	if textStdin {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}
	if len(lines) == 0 {
		return fmt.Errorf("no input lines: pass them as arguments or use --stdin")
	}

	gens, err := buildGenerators(cfg, GetRootDir())
	if err != nil {
		return err
	}

	if textFormat == output.FormatSQLite {
		return fmt.Errorf("sqlite output is only supported by the features command")
	}
	sink, err := output.New(textFormat, os.Stdout, "")
	if err != nil {
		return err
	}

	for _, gen := range gens {
		ds := domain.Dataset{Name: "input", Texts: lines}
		if len(gens) > 1 {
			ds.Name = "input/" + gen.Tokenizer().String()
		}
		if err := sink.Write(ds, gen.Generate(lines)); err != nil {
			return err
		}
	}
	return sink.Close()
}
