package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nlon/internal/domain"
	"nlon/internal/logging"
	"nlon/internal/port"
)

// ProgressFunc is called after each dataset is processed.
type ProgressFunc func(processed, total int, current string)

// ExtractUseCase generates feature tables for dataset files.
type ExtractUseCase struct {
	finder    port.DatasetFinder
	reader    port.DatasetReader
	generator *FeatureGenerator
	sink      port.TableSink
	store     port.RunStore
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewExtractUseCase creates a new extraction use case. store and logger may
// be nil.
func NewExtractUseCase(
	finder port.DatasetFinder,
	reader port.DatasetReader,
	generator *FeatureGenerator,
	sink port.TableSink,
	store port.RunStore,
	logger *slog.Logger,
) *ExtractUseCase {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ExtractUseCase{
		finder:    finder,
		reader:    reader,
		generator: generator,
		sink:      sink,
		store:     store,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ExtractResult contains the results of an extraction.
type ExtractResult struct {
	DatasetsProcessed int
	DatasetsFailed    int
	RowsGenerated     int
	RunIDs            []string
	Errors            []string
}

// ErrNoDatasets is returned when no file matches the requested patterns.
var ErrNoDatasets = errors.New("no datasets matched")

// Extract finds datasets under root, generates their feature tables and
// hands each table to the sink, and to the run store when one is set.
// Failures reading a single dataset are recorded in the result and do not
// stop the others.
func (u *ExtractUseCase) Extract(root string, patterns []string, progress ProgressFunc) (*ExtractResult, error) {
	files, err := u.finder.Find(root, patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to find datasets: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoDatasets
	}

	u.logger.Info("extracting features",
		"datasets", len(files),
		"tokenizer", u.generator.Tokenizer().String(),
		"stopwords", u.generator.Stopwords().Len())

	result := &ExtractResult{}
	for i, path := range files {
		if err := u.extractFile(path, result); err != nil {
			return result, err
		}
		if progress != nil {
			progress(i+1, len(files), path)
		}
	}

	return result, nil
}

func (u *ExtractUseCase) extractFile(path string, result *ExtractResult) error {
	ds, err := u.reader.Read(path)
	if err != nil {
		result.DatasetsFailed++
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read %s: %v", path, err))
		u.logger.Warn("skipping dataset", "path", path, "error", err)
		return nil
	}

	start := time.Now()
	table := u.generator.Generate(ds.Texts)
	u.logger.Debug("generated features",
		"dataset", ds.Name,
		"rows", table.Len(),
		"elapsed", time.Since(start))
	u.traceRows(ds, table)

	if err := u.sink.Write(ds, table); err != nil {
		return fmt.Errorf("failed to write features for %s: %w", ds.Name, err)
	}

	result.DatasetsProcessed++
	result.RowsGenerated += table.Len()

	if u.store != nil {
		run := u.newRun(ds, table)
		if err := u.store.PutRun(run); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to store run for %s: %v", ds.Name, err))
			u.logger.Warn("run not stored", "dataset", ds.Name, "error", err)
			return nil
		}
		result.RunIDs = append(result.RunIDs, run.ID)
		u.logger.Debug("stored run", "dataset", ds.Name, "run", run.ID)
	}

	return nil
}

// traceRows logs the headline features of every row at trace level.
func (u *ExtractUseCase) traceRows(ds domain.Dataset, table domain.FeatureTable) {
	ctx := context.Background()
	if !u.logger.Enabled(ctx, logging.LevelTrace) {
		return
	}
	for i, row := range table.Rows {
		u.logger.Log(ctx, logging.LevelTrace, "row features",
			"dataset", ds.Name,
			"row", i,
			"words", row.WordsCount,
			"stopwords", row.StopwordsCount,
			"special_ratio", row.SpecialCharsRatio,
			"code_end", row.EndsWithCodeChar)
	}
}

func (u *ExtractUseCase) newRun(ds domain.Dataset, table domain.FeatureTable) domain.Run {
	run := domain.Run{
		ID:            u.newID(),
		Dataset:       ds.Name,
		Source:        ds.Path,
		Tokenizer:     u.generator.Tokenizer().String(),
		Stopwords:     u.generator.Stopwords().Len(),
		CreatedAt:     u.now().UTC(),
		SchemaVersion: RunSchemaVersion,
		Rows:          table.Len(),
		Table:         table,
	}
	if ds.HasLabels() {
		run.Labels = ds.Labels
	}
	return run
}

// RunSchemaVersion versions the feature column set recorded with each run.
const RunSchemaVersion = 1
