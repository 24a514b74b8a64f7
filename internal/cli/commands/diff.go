package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/recset-labs/recset/internal/cli/output"
	"github.com/recset-labs/recset/internal/recio"
	"github.com/recset-labs/recset/pkg/record"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrDiffsFound reports a comparison that found differences. It carries
// no message of its own; the diff output is the diagnosis and the
// process exit status is the signal.
var ErrDiffsFound = errors.New("differences found")

// DiffOptions holds options for the diff command.
type DiffOptions struct {
	KeyField string // Field to pair records by instead of position
	Watch    bool   // Re-run when either input changes
}

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	opts := &DiffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <result> <other>",
		Short: "Compare two record sets field by field",
		Long: `Compare two record set files and report per-record field differences.

Records pair by position: result[i] compares against other[i], and a
record without a counterpart reports every field. Use --by-key to name
an identifying field and pair records by its value instead; that mode
tolerates reordering, at the cost of ignoring duplicate keys.

Input encodings (json, yaml, ndjson) are inferred from file extensions.`,
		Example: `  # Regression-test a parse run against a previous one
  recset diff new-run.json old-run.json

  # Machine-readable output
  recset diff -o json new-run.json old-run.yaml

  # Pair interface records by name instead of position
  recset diff --by-key intf new-run.json old-run.json

  # Re-run the comparison whenever either file changes
  recset diff --watch new-run.json old-run.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.KeyField, "by-key", "", "Pair records by this field's value instead of by position")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-run when either input file changes")

	return cmd
}

func runDiff(cmd *cobra.Command, opts *DiffOptions, resultPath, otherPath string) error {
	r := GetRenderer(cmd)

	if !opts.Watch {
		return diffOnce(r, opts, resultPath, otherPath)
	}
	return watchDiff(cmd, r, opts, resultPath, otherPath)
}

func diffOnce(r *output.Renderer, opts *DiffOptions, resultPath, otherPath string) error {
	var result, other []*record.Record

	// The two inputs are independent; load them in parallel and fail on
	// the first error.
	var g errgroup.Group
	g.Go(func() (err error) {
		result, err = recio.ReadFile(resultPath)
		return err
	})
	g.Go(func() (err error) {
		other, err = recio.ReadFile(otherPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.KeyField != "" {
		assignKeys(result, opts.KeyField)
		assignKeys(other, opts.KeyField)
		forResult, forOther := record.CompareByKey(result, other)
		return renderKeyDiff(r, forResult, forOther)
	}

	diffResult, diffOther := record.CompareSets(result, other)
	return renderPositionalDiff(r, diffResult, diffOther)
}

// assignKeys sets each record's key from the named field's display
// value, standing in for the engine that would normally assign keys.
// Records lacking the field stay unkeyed and will be reported in full.
func assignKeys(recs []*record.Record, field string) {
	for _, rec := range recs {
		if v, ok := rec.Get(field); ok {
			rec.Key = v.String()
		}
	}
}

// positionalReport is the JSON shape of a positional diff.
type positionalReport struct {
	DiffsForResult [][]string `json:"diffs_for_result"`
	DiffsForOther  [][]string `json:"diffs_for_other"`
	DiffCount      int        `json:"diff_count"`
}

func countDiffs(diffs [][]string) int {
	n := 0
	for _, d := range diffs {
		n += len(d)
	}
	return n
}

func renderPositionalDiff(r *output.Renderer, diffResult, diffOther [][]string) error {
	total := countDiffs(diffResult) + countDiffs(diffOther)

	if r.IsJSON() {
		if err := r.JSON(positionalReport{
			DiffsForResult: diffResult,
			DiffsForOther:  diffOther,
			DiffCount:      total,
		}); err != nil {
			return err
		}
		if total > 0 {
			return ErrDiffsFound
		}
		return nil
	}

	if total == 0 {
		r.Printf("Record sets match (%d records)\n", len(diffResult))
		return nil
	}

	rows := make([][]string, 0, total)
	for i, fields := range diffResult {
		for _, f := range fields {
			rows = append(rows, []string{strconv.Itoa(i), "result", f})
		}
	}
	for i, fields := range diffOther {
		for _, f := range fields {
			rows = append(rows, []string{strconv.Itoa(i), "other", f})
		}
	}
	r.Table([]string{"index", "side", "field"}, rows)
	r.Printf("%d differing fields\n", total)
	return ErrDiffsFound
}

// keyReport is the JSON shape of a key-based diff.
type keyReport struct {
	DiffsForResult []record.KeyDiff `json:"diffs_for_result"`
	DiffsForOther  []record.KeyDiff `json:"diffs_for_other"`
	DiffCount      int              `json:"diff_count"`
}

func countKeyDiffs(diffs []record.KeyDiff) int {
	n := 0
	for _, d := range diffs {
		n += len(d.Fields)
	}
	return n
}

func renderKeyDiff(r *output.Renderer, forResult, forOther []record.KeyDiff) error {
	total := countKeyDiffs(forResult) + countKeyDiffs(forOther)

	if r.IsJSON() {
		if err := r.JSON(keyReport{
			DiffsForResult: forResult,
			DiffsForOther:  forOther,
			DiffCount:      total,
		}); err != nil {
			return err
		}
		if total > 0 {
			return ErrDiffsFound
		}
		return nil
	}

	if total == 0 {
		r.Printf("Record sets match (%d keys)\n", len(forResult))
		return nil
	}

	var rows [][]string
	appendSide := func(side string, diffs []record.KeyDiff) {
		for _, d := range diffs {
			status := "differs"
			if d.Missing {
				status = "missing"
			}
			for _, f := range d.Fields {
				rows = append(rows, []string{d.Key, side, status, f})
			}
		}
	}
	appendSide("result", forResult)
	appendSide("other", forOther)
	r.Table([]string{"key", "side", "status", "field"}, rows)
	r.Printf("%d differing fields\n", total)
	return ErrDiffsFound
}

// watchDiff re-runs the comparison whenever either input file changes.
// It blocks until interrupted and never returns ErrDiffsFound: watch
// mode is interactive, not a gating check.
func watchDiff(cmd *cobra.Command, r *output.Renderer, opts *DiffOptions, resultPath, otherPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directories: editors replace files on save, and
	// watching the path directly loses the watch on rename.
	watched := map[string]bool{
		filepath.Clean(resultPath): true,
		filepath.Clean(otherPath):  true,
	}
	for dir := range map[string]bool{
		filepath.Dir(resultPath): true,
		filepath.Dir(otherPath):  true,
	} {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	run := func() {
		if err := diffOnce(r, opts, resultPath, otherPath); err != nil && !errors.Is(err, ErrDiffsFound) {
			r.Errorf("diff failed: %v\n", err)
		}
	}
	run()

	// Debounce: editors emit bursts of events per save.
	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			run()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("input changed", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Errorf("watch error: %v\n", err)
		}
	}
}
