package commands

import (
	"fmt"

	"github.com/recset-labs/recset/internal/recio"
	"github.com/spf13/cobra"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	To        string // Target encoding
	OutFile   string // Destination path; stdout when empty
	Lowercase bool   // Lowercase all field names
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Re-encode a record set",
		Long: `Read a record set and write it in another encoding.

All encodings carry the same flat field mapping: a bare string is a
single value, a sequence is a list. The input encoding is inferred from
the file extension; the output encoding from --to, or from the --out
file extension when --to is not given.`,
		Example: `  # JSON to YAML on stdout
  recset convert run.json --to yaml

  # Normalize field names while converting
  recset convert run.json --lowercase --out run.ndjson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "Output encoding: json, yaml, or ndjson")
	cmd.Flags().StringVar(&opts.OutFile, "out", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.Lowercase, "lowercase", false, "Convert field names to lowercase")

	return cmd
}

func runConvert(cmd *cobra.Command, opts *ConvertOptions, inputPath string) error {
	recs, err := recio.ReadFile(inputPath)
	if err != nil {
		return err
	}

	if opts.Lowercase {
		for i, rec := range recs {
			lc, err := rec.LowercaseKeys()
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			recs[i] = lc
		}
	}

	format := recio.FormatJSON
	switch {
	case opts.To != "":
		if format, err = recio.ParseFormat(opts.To); err != nil {
			return err
		}
	case opts.OutFile != "":
		format = recio.DetectFormat(opts.OutFile)
	}

	if opts.OutFile != "" {
		return recio.WriteFileAs(opts.OutFile, recs, format)
	}
	return recio.Write(cmd.OutOrStdout(), recs, format)
}
