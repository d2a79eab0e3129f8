package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func newGenerateCommand(e *env) *cobra.Command {
	var description, file, template string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a resume from a free-text description",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				b, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				description = string(b)
			}
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			r, err := a.Resumes.Generate(cmd.Context(), description, template)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "your experience, at least 50 characters")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the description from a file (- for stdin)")
	cmd.Flags().StringVarP(&template, "template", "t", "", "modern|ats|creative|executive")
	return cmd
}

func newResumeCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Inspect and edit the stored resume",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			r, err := a.Resumes.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		},
	}

	imp := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the stored resume with an edited JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			r, err := a.Resumes.Import(cmd.Context(), b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved resume for %s\n", r.PersonalInformation.FullName)
			return nil
		},
	}

	templates := &cobra.Command{
		Use:   "templates",
		Short: "List the LaTeX templates the backend offers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			t, err := a.Exports.Templates(cmd.Context())
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(t))
			for id := range t {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", id, strings.TrimSpace(t[id]))
			}
			return nil
		},
	}

	cmd.AddCommand(show, imp, templates)
	return cmd
}
