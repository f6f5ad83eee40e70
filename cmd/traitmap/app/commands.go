package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencurate/traitmap"
	cmdtable "github.com/opencurate/traitmap/internal/cmd/table"
	"github.com/opencurate/traitmap/pkg/errors"
	"github.com/opencurate/traitmap/pkg/mapping"
	"github.com/opencurate/traitmap/pkg/ontology"
	"github.com/opencurate/traitmap/pkg/tsvio"
)

// outputFilePermissions is the mode for generated tables.
const outputFilePermissions = 0o644

// NewCurateCommand creates the curate subcommand: build the prioritized
// curation table from the trait source and previous-mapping streams.
func (a *App) NewCurateCommand() *cobra.Command {
	var (
		traitsPath   string
		previousPath string
		termsPath    string
		policyPath   string
		outPath      string
		autoPath     string
		unmappedPath string
		preview      bool
	)

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Build the curation review table",
		Long: `Curate reads the trait source stream and the previous-mapping
stream, classifies candidate containment against the ontology release
term list, resolves a recommended action per trait, and writes the
rank-ordered curation table plus the auto-accepted mapping subset.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := a.buildPipeline(policyPath, termsPath)
			if err != nil {
				return err
			}

			input := traitmap.CurateInput{TraitsPath: traitsPath, PreviousPath: previousPath}

			traitsFile, err := os.Open(traitsPath)
			if err != nil {
				return errors.WrapIO("open", traitsPath, err)
			}
			defer traitsFile.Close()
			input.Traits = traitsFile

			if previousPath != "" {
				previousFile, err := os.Open(previousPath)
				if err != nil {
					return errors.WrapIO("open", previousPath, err)
				}
				defer previousFile.Close()
				input.Previous = previousFile
			}

			result, err := pipeline.Curate(cmd.Context(), input)
			if err != nil {
				return err
			}

			if err := writeTo(outPath, func(w io.Writer) error {
				return tsvio.WriteTable(w, result.Table)
			}); err != nil {
				return err
			}

			if autoPath != "" {
				if err := writeTo(autoPath, func(w io.Writer) error {
					return tsvio.WriteFinal(w, result.AutoAccepted)
				}); err != nil {
					return err
				}
			}

			if unmappedPath != "" {
				if err := writeTo(unmappedPath, func(w io.Writer) error {
					return tsvio.WriteUnmapped(w, result.Recommendations)
				}); err != nil {
					return err
				}
			}

			if preview {
				if err := cmdtable.RenderPreview(cmd.OutOrStdout(), result.Table); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.ErrOrStderr(), result.Report)
			return nil
		},
	}

	cmd.Flags().StringVar(&traitsPath, "traits", "", "trait source stream (TSV, required)")
	cmd.Flags().StringVar(&previousPath, "previous", "", "previous-mapping stream (TSV)")
	cmd.Flags().StringVar(&termsPath, "terms", "", "ontology release term list, one URI per line")
	cmd.Flags().StringVar(&policyPath, "policy", "", "curation policy file (YAML)")
	cmd.Flags().StringVar(&outPath, "out", "", "curation table output path (default stdout)")
	cmd.Flags().StringVar(&autoPath, "auto-out", "", "auto-accepted mappings output path")
	cmd.Flags().StringVar(&unmappedPath, "unmapped", "", "unmapped traits output path")
	cmd.Flags().BoolVar(&preview, "preview", false, "render a terminal preview of the table")
	_ = cmd.MarkFlagRequired("traits")

	return cmd
}

// NewMergeCommand creates the merge subcommand: combine reviewed
// decisions with the auto-accepted mappings into the final table.
func (a *App) NewMergeCommand() *cobra.Command {
	var (
		decisionsPath string
		autoPath      string
		outPath       string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Produce the final mapping table",
		Long: `Merge combines the human-reviewed curation decision stream with
the auto-accepted mappings written by curate. A trait present in both
inputs fails the run; so does any whitespace-contaminated URI or label.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := traitmap.New()
			if err != nil {
				return err
			}

			input := traitmap.MergeInput{DecisionsPath: decisionsPath, AutoPath: autoPath}

			decisionsFile, err := os.Open(decisionsPath)
			if err != nil {
				return errors.WrapIO("open", decisionsPath, err)
			}
			defer decisionsFile.Close()
			input.Decisions = decisionsFile

			if autoPath != "" {
				autoFile, err := os.Open(autoPath)
				if err != nil {
					return errors.WrapIO("open", autoPath, err)
				}
				defer autoFile.Close()
				input.Auto = autoFile
			}

			final, report, err := pipeline.Merge(cmd.Context(), input)
			if err != nil {
				return err
			}

			if err := writeTo(outPath, func(w io.Writer) error {
				return tsvio.WriteFinal(w, final)
			}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&decisionsPath, "decisions", "", "curation decision stream (TSV, required)")
	cmd.Flags().StringVar(&autoPath, "auto", "", "auto-accepted mappings from curate (TSV)")
	cmd.Flags().StringVar(&outPath, "out", "", "final table output path (default stdout)")
	_ = cmd.MarkFlagRequired("decisions")

	return cmd
}

// NewCheckCommand creates the check subcommand: validate a manual
// new-mapping entry against the grammar.
func (a *App) NewCheckCommand() *cobra.Command {
	var entry string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a manual new-mapping entry",
		Long: `Check parses a manual new-mapping entry of the form

    URL|LABEL|||EFO_STATUS

and reports the parsed candidate or the grammar violation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cand, err := mapping.ParseManualEntry(entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uri:\t%s\nlabel:\t%s\nsource:\t%s\ncontainment:\t%s\n",
				cand.URI, cand.Label, cand.Source, cand.Containment)
			return nil
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "", "manual entry to validate (required)")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}

// NewVersionCommand creates the version subcommand.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "traitmap %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}

// buildPipeline assembles a pipeline from config, policy file, and the
// optional ontology release term list.
func (a *App) buildPipeline(policyPath, termsPath string) (*traitmap.Pipeline, error) {
	opts := []traitmap.Option{
		traitmap.WithReviewFloor(a.config.ReviewFloor),
		traitmap.WithLookupTimeout(a.config.LookupTimeout),
		traitmap.WithLookupWorkers(a.config.LookupWorkers),
	}
	if a.config.MaxColumns > 0 {
		opts = append(opts, traitmap.WithMaxColumns(a.config.MaxColumns))
	}

	if policyPath != "" {
		policy, err := traitmap.LoadPolicy(policyPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, traitmap.WithPolicy(policy))
	}

	if termsPath != "" {
		termsFile, err := os.Open(termsPath)
		if err != nil {
			return nil, errors.WrapIO("open", termsPath, err)
		}
		defer termsFile.Close()

		lookup, err := ontology.LoadTermList(termsFile, termsPath)
		if err != nil {
			return nil, err
		}
		a.logger.Info().Int("terms", lookup.Len()).Str("file", termsPath).Msg("Loaded ontology release term list")
		opts = append(opts, traitmap.WithLookup(lookup))
	}

	return traitmap.New(opts...)
}

// writeTo writes through fn to the named file, or stdout when the path
// is empty.
func writeTo(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, outputFilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()
	return fn(f)
}
