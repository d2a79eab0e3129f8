package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
)

type exportFlags struct {
	template  string
	out       string
	store     bool
	signedTTL time.Duration
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "template override")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file or directory (default: derived file name)")
	cmd.Flags().BoolVar(&f.store, "store", false, "upload to the configured export sink instead of writing locally")
	cmd.Flags().DurationVar(&f.signedTTL, "signed-ttl", 0, "with --store, print a download link valid this long (gcs, minio)")
}

func (f *exportFlags) options() services.ExportOptions {
	return services.ExportOptions{Template: f.template, Store: f.store, SignedTTL: f.signedTTL}
}

// write saves art locally unless it was stored in the sink.
func (f *exportFlags) write(cmd *cobra.Command, art models.Artifact) error {
	if art.Location != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%d bytes)\n", art.Location, art.Size)
		if art.URL != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Download: %s\n", art.URL)
		}
		return nil
	}
	path := art.FileName
	if f.out != "" {
		path = f.out
		if st, err := os.Stat(f.out); err == nil && st.IsDir() {
			path = filepath.Join(f.out, art.FileName)
		}
	}
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return err
	}
	if art.Pages > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes, %d pages)\n", path, art.Size, art.Pages)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, art.Size)
	}
	return nil
}

func newExportCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored resume",
	}

	var htmlFlags, pdfFlags, latexFlags, compileFlags exportFlags

	html := &cobra.Command{
		Use:   "html",
		Short: "Render the resume as a standalone HTML page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			art, err := a.Exports.HTML(cmd.Context(), htmlFlags.options())
			if err != nil {
				return err
			}
			return htmlFlags.write(cmd, art)
		},
	}
	htmlFlags.register(html)

	pdf := &cobra.Command{
		Use:   "pdf",
		Short: "Print the resume to an A4 PDF with a headless browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			art, err := a.Exports.PDF(cmd.Context(), pdfFlags.options())
			if err != nil {
				return err
			}
			return pdfFlags.write(cmd, art)
		},
	}
	pdfFlags.register(pdf)

	latex := &cobra.Command{
		Use:   "latex",
		Short: "Have the backend write LaTeX source for the resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			_, art, err := a.Exports.LaTeX(cmd.Context(), latexFlags.options())
			if err != nil {
				return err
			}
			return latexFlags.write(cmd, art)
		},
	}
	latexFlags.register(latex)

	var watch bool
	compile := &cobra.Command{
		Use:   "compile <file.tex>",
		Short: "Compile LaTeX source to PDF on the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, Ctrl-C to stop\n", args[0])
				return a.Exports.WatchCompile(ctx, args[0], compileFlags.options(), func(art models.Artifact, err error) {
					if err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "compile failed:", err)
						return
					}
					if err := compileFlags.write(cmd, art); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "write failed:", err)
					}
				})
			}

			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			art, err := a.Exports.Compile(cmd.Context(), string(code), compileFlags.options())
			if err != nil {
				return err
			}
			return compileFlags.write(cmd, art)
		},
	}
	compileFlags.register(compile)
	compile.Flags().BoolVarP(&watch, "watch", "w", false, "recompile whenever the file changes")

	cmd.AddCommand(html, pdf, latex, compile)
	return cmd
}
