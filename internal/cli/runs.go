package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"nlon/config"
	"nlon/internal/adapter/output"
	"nlon/internal/adapter/store"
	"nlon/internal/domain"
)

var (
	runsDataset string
	showFormat  string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect runs kept in the run store",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the feature table of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	runsListCmd.Flags().StringVar(&runsDataset, "dataset", "", "only runs of this dataset")
	runsShowCmd.Flags().StringVarP(&showFormat, "format", "f", output.FormatTable, "output format: csv, json, table")
}

// openExistingRunStore opens the run store without creating it.
func openExistingRunStore() (*store.BoltStore, error) {
	root := GetRootDir()
	if _, err := os.Stat(config.RunsDBPath(root)); os.IsNotExist(err) {
		return nil, fmt.Errorf("no run store found. Run 'nlon features --store' first")
	}
	return openRunStore(root)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	st, err := openExistingRunStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var runs []domain.Run
	if runsDataset != "" {
		runs, err = st.RunsByDataset(runsDataset)
	} else {
		runs, err = st.ListRuns()
	}
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}
	fmt.Println(renderRuns(runs))
	return nil
}

func renderRuns(runs []domain.Run) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"id", "dataset", "rows", "tokenizer", "stopwords", "created"})
	for _, r := range runs {
		tw.AppendRow(table.Row{r.ID, r.Dataset, r.Rows, r.Tokenizer, r.Stopwords, r.CreatedAt.Local().Format("2006-01-02 15:04:05")})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	st, err := openExistingRunStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(args[0])
	if err != nil {
		return err
	}

	if showFormat == output.FormatSQLite {
		return fmt.Errorf("use 'nlon features --format sqlite' to export to SQLite")
	}
	sink, err := output.New(showFormat, os.Stdout, "")
	if err != nil {
		return err
	}

	texts := make([]string, run.Table.Len())
	for i, row := range run.Table.Rows {
		texts[i] = row.Text
	}
	ds := domain.Dataset{Name: run.Dataset, Path: run.Source, Texts: texts, Labels: run.Labels}
	if err := sink.Write(ds, run.Table); err != nil {
		return err
	}
	return sink.Close()
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	st, err := openExistingRunStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteRun(args[0]); err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return fmt.Errorf("no run with id %s", args[0])
		}
		return err
	}
	fmt.Printf("Deleted run %s\n", args[0])
	return nil
}
