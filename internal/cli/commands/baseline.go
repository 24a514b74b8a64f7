package commands

import (
	"strconv"

	"github.com/recset-labs/recset/internal/recio"
	"github.com/recset-labs/recset/pkg/record"
	"github.com/spf13/cobra"
)

// NewBaselineCommand creates the baseline command group.
func NewBaselineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage record set regression baselines",
		Long: `Store named record set snapshots and check later parse runs against
them. Baselines live in the state database (see --state); a check is a
positional comparison whose outcome is kept as history.`,
	}

	cmd.AddCommand(newBaselineSaveCommand())
	cmd.AddCommand(newBaselineCheckCommand())
	cmd.AddCommand(newBaselineListCommand())
	cmd.AddCommand(newBaselineDeleteCommand())

	return cmd
}

func newBaselineSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "save <name> <file>",
		Short:   "Save a record set as a named baseline",
		Example: "  recset baseline save show_version run.json",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			recs, err := recio.ReadFile(path)
			if err != nil {
				return err
			}

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := store.SaveBaseline(name, recs)
			if err != nil {
				return err
			}

			r := GetRenderer(cmd)
			if r.IsJSON() {
				return r.JSON(map[string]any{
					"name":         b.Name,
					"record_count": b.RecordCount,
				})
			}
			r.Printf("Saved baseline %q (%d records)\n", b.Name, b.RecordCount)
			return nil
		},
	}
}

func newBaselineCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <name> <file>",
		Short: "Compare a record set against a stored baseline",
		Long: `Compare a parse run against the named baseline, positionally, and
record the outcome. Exits non-zero when differences are found.`,
		Example: `  recset baseline check show_version new-run.json`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			recs, err := recio.ReadFile(path)
			if err != nil {
				return err
			}

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			baseline, err := store.GetBaseline(name)
			if err != nil {
				return err
			}

			diffResult, diffBaseline := record.CompareSets(recs, baseline)
			total := countDiffs(diffResult) + countDiffs(diffBaseline)

			if _, err := store.RecordCheck(name, total == 0, total); err != nil {
				return err
			}

			return renderPositionalDiff(GetRenderer(cmd), diffResult, diffBaseline)
		},
	}
}

func newBaselineListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored baselines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			baselines, err := store.ListBaselines()
			if err != nil {
				return err
			}

			r := GetRenderer(cmd)
			if r.IsJSON() {
				type entry struct {
					Name        string `json:"name"`
					RecordCount int    `json:"record_count"`
					UpdatedAt   string `json:"updated_at"`
				}
				out := make([]entry, 0, len(baselines))
				for _, b := range baselines {
					out = append(out, entry{b.Name, b.RecordCount, b.UpdatedAt.Format("2006-01-02 15:04:05")})
				}
				return r.JSON(out)
			}

			if len(baselines) == 0 {
				r.Printf("No baselines stored\n")
				return nil
			}
			rows := make([][]string, 0, len(baselines))
			for _, b := range baselines {
				rows = append(rows, []string{
					b.Name,
					strconv.Itoa(b.RecordCount),
					b.UpdatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			r.Table([]string{"name", "records", "updated"}, rows)
			return nil
		},
	}
}

func newBaselineDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored baseline and its check history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteBaseline(args[0]); err != nil {
				return err
			}

			r := GetRenderer(cmd)
			if !r.IsJSON() {
				r.Printf("Deleted baseline %q\n", args[0])
			}
			return nil
		},
	}
}
