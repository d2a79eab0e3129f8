package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
)

func newATSCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ats <resume.pdf|.doc|.docx>",
		Short: "Score a resume file for ATS compatibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.ATS.Check(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printATS(cmd, res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printATS(cmd *cobra.Command, res models.ATSResult) {
	w := cmd.OutOrStdout()
	if res.Score != nil {
		fmt.Fprintf(w, "ATS score: %d/100 (%s)\n", *res.Score, res.Label)
	} else {
		fmt.Fprintln(w, "ATS score: not available")
	}
	bd := res.Breakdown
	for _, row := range []struct {
		name string
		v    *int
	}{
		{"Keyword match", bd.KeywordMatch},
		{"Formatting", bd.Formatting},
		{"Section completeness", bd.SectionCompleteness},
	} {
		if row.v != nil {
			fmt.Fprintf(w, "  %-22s %d%%\n", row.name, *row.v)
		}
	}
	if res.KeywordCoverage != nil {
		fmt.Fprintf(w, "  %-22s %d%%\n", "Keyword coverage", *res.KeywordCoverage)
	}
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s:\n", title)
		for _, it := range items {
			fmt.Fprintf(w, "  - %s\n", it)
		}
	}
	section("Strengths", res.Strengths)
	section("Weaknesses", res.Weaknesses)
	section("Suggestions", res.Suggestions)
	if len(res.MissingKeywords) > 0 {
		fmt.Fprintf(w, "\nMissing keywords: %s\n", strings.Join(res.MissingKeywords, ", "))
	}
}
