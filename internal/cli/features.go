package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"nlon/config"
	"nlon/internal/adapter/analyzer"
	"nlon/internal/adapter/dataset"
	"nlon/internal/adapter/fs"
	"nlon/internal/adapter/output"
	"nlon/internal/adapter/store"
	"nlon/internal/port"
	"nlon/internal/usecase"
)

var (
	featFormat     string
	featOut        string
	featTokenizer  string
	featStopwords  string
	featTextColumn string
	featStore      bool
)

var featuresCmd = &cobra.Command{
	Use:   "features [dataset|glob...]",
	Short: "Generate feature tables for datasets",
	Long: `Generate the NLoN feature table for every CSV dataset matching the given
files or glob patterns (default: input.includes from the config). Each dataset
must have a header row and a text column.

Examples:
  nlon features                               # All datasets under the root
  nlon features "data/**/*.csv" --format json # JSON for matching datasets
  nlon features lucene.csv --tokenizer word   # Word-pattern stopword matching
  nlon features --store                       # Also keep the run in .nlon/runs.db`,
	RunE: runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)
	featuresCmd.Flags().StringVarP(&featFormat, "format", "f", "", "output format: csv, json, table, sqlite (default from config)")
	featuresCmd.Flags().StringVarP(&featOut, "out", "o", "", "output file (default stdout; required for sqlite)")
	featuresCmd.Flags().BoolVar(&featStore, "store", false, "persist runs in the run store")
	addGeneratorFlags(featuresCmd)
	featuresCmd.Flags().StringVar(&featTextColumn, "text-column", "", "name of the text column (default from config)")
}

// addGeneratorFlags registers the flags shared by every command that builds
// a feature generator.
func addGeneratorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&featTokenizer, "tokenizer", "", "stopword tokenizer: whitespace, word, or both for text (default from config)")
	cmd.Flags().StringVar(&featStopwords, "stopwords", "", "stopword list, one word per line (default from config)")
}

func applyGeneratorOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("tokenizer") {
		cfg.Features.Tokenizer = featTokenizer
	}
	if flags.Changed("stopwords") {
		cfg.Features.Stopwords = featStopwords
	}
}

func applyFeaturesOverrides(cmd *cobra.Command, cfg *config.Config) {
	applyGeneratorOverrides(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("text-column") {
		cfg.Input.TextColumn = featTextColumn
	}
	if flags.Changed("format") {
		cfg.Output.Format = featFormat
	}
	if flags.Changed("out") {
		cfg.Output.Path = featOut
	}
	if flags.Changed("store") {
		cfg.Store.Enabled = featStore
	}
}

// buildGenerator creates the single feature generator described by cfg.
func buildGenerator(cfg *config.Config, root string) (*usecase.FeatureGenerator, error) {
	gens, err := buildGenerators(cfg, root)
	if err != nil {
		return nil, err
	}
	if len(gens) != 1 {
		return nil, fmt.Errorf("tokenizer %q selects %d variants, this command takes one", cfg.Features.Tokenizer, len(gens))
	}
	return gens[0], nil
}

// buildGenerators creates one generator per tokenizer selected by cfg, all
// sharing one stopword set. Stopword paths are resolved against the root
// directory.
func buildGenerators(cfg *config.Config, root string) ([]*usecase.FeatureGenerator, error) {
	toks, err := analyzer.ParseTokenizers(cfg.Features.Tokenizer)
	if err != nil {
		return nil, err
	}

	stopwords := analyzer.DefaultStopwords()
	if path := resolvePath(root, cfg.Features.Stopwords); path != "" {
		stopwords, err = dataset.LoadStopwords(path)
		if err != nil {
			return nil, err
		}
		GetLogger().Debug("loaded stopwords", "path", path, "count", stopwords.Len())
	} else {
		GetLogger().Debug("using built-in stopwords", "count", stopwords.Len())
	}

	base := usecase.NewFeatureGenerator(stopwords, toks[0])
	gens := []*usecase.FeatureGenerator{base}
	for _, tok := range toks[1:] {
		gens = append(gens, base.WithTokenizer(tok))
	}
	return gens, nil
}

// openSink creates the configured sink. The returned closer releases the
// output file, if any, after the sink is closed.
func openSink(cfg *config.Config, root string) (port.TableSink, func() error, error) {
	format := strings.ToLower(cfg.Output.Format)
	path := resolvePath(root, cfg.Output.Path)

	if format == output.FormatSQLite {
		sink, err := output.New(format, nil, path)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink.Close, nil
	}

	var w io.Writer = os.Stdout
	var file *os.File
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		file = f
		w = f
	}

	sink, err := output.New(format, w, path)
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, nil, err
	}

	closer := func() error {
		err := sink.Close()
		if file != nil {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}
	return sink, closer, nil
}

func resolvePath(root, path string) string {
	if path != "" && !filepath.IsAbs(path) {
		return filepath.Join(root, path)
	}
	return path
}

// openRunStore opens the bolt run store under root and brings its schema up
// to date.
func openRunStore(root string) (*store.BoltStore, error) {
	if err := config.EnsureDataDir(root); err != nil {
		return nil, fmt.Errorf("failed to create .nlon directory: %w", err)
	}

	st, err := store.NewBoltStore(config.RunsDBPath(root))
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}

	result, err := st.Prepare()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to prepare run store: %w", err)
	}
	if result.NeedsRebuild {
		GetLogger().Warn("run store cleared", "reason", result.Reason)
	} else if result.NeedsMigration {
		GetLogger().Info("run store migrated", "reason", result.Reason)
	}
	return st, nil
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root := GetRootDir()
	log := GetLogger()
	applyFeaturesOverrides(cmd, cfg)

	gen, err := buildGenerator(cfg, root)
	if err != nil {
		return err
	}

	reader, err := dataset.NewCSVReader(dataset.Options{
		TextColumn:  cfg.Input.TextColumn,
		LabelColumn: cfg.Input.LabelColumn,
		NullValues:  cfg.Input.NullValues,
		Encoding:    cfg.Input.Encoding,
		Delimiter:   cfg.Input.Delimiter,
	})
	if err != nil {
		return fmt.Errorf("invalid input config: %w", err)
	}

	// never read back the file being written
	excludes := append([]string(nil), cfg.Input.Excludes...)
	if out := resolvePath(root, cfg.Output.Path); out != "" {
		if rel, err := filepath.Rel(root, out); err == nil {
			excludes = append(excludes, filepath.ToSlash(rel))
		}
	}
	finder := fs.NewFinder(cfg.Input.Includes, excludes)

	sink, closeSink, err := openSink(cfg, root)
	if err != nil {
		return err
	}

	var runStore port.RunStore
	if cfg.Store.Enabled {
		st, err := openRunStore(root)
		if err != nil {
			closeSink()
			return err
		}
		defer st.Close()
		runStore = st
	}

	extractUC := usecase.NewExtractUseCase(finder, reader, gen, sink, runStore, log)

	result, err := extractUC.Extract(root, args, newProgress(os.Stderr, "Extracting"))
	if cerr := closeSink(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to flush output: %w", cerr)
	}
	if err != nil {
		if errors.Is(err, usecase.ErrNoDatasets) {
			return fmt.Errorf("%w under %s", err, root)
		}
		return err
	}

	log.Info("extraction complete",
		"datasets", result.DatasetsProcessed,
		"failed", result.DatasetsFailed,
		"rows", result.RowsGenerated)
	for _, id := range result.RunIDs {
		log.Info("stored run", "id", id)
	}
	for _, e := range result.Errors {
		log.Warn(e)
	}

	if result.DatasetsProcessed == 0 {
		return fmt.Errorf("all %d datasets failed", result.DatasetsFailed)
	}
	return nil
}

// newProgress returns a progress callback drawing a bar on w, or nil when w
// is not a terminal.
func newProgress(w *os.File, label string) usecase.ProgressFunc {
	fd := w.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil
	}

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, current string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+label+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		}

		bar.Describe(fmt.Sprintf("[cyan]%s[reset] %s (%s)", label, filepath.Base(current), formatDuration(time.Since(startTime))))
		bar.Set(processed)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
