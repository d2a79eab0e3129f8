// Package cli implements resumectl.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/praveensuthar2105/Ai-Resume-Builder/config"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/app"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/logger"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// env holds what a command needs; it is built lazily so --help works offline.
type env struct {
	opts *rootOptions
	app  *app.App
}

func (e *env) load(ctx context.Context) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	if e.opts.configPath != "" {
		os.Setenv("RESUMECRAFT_CONFIG", e.opts.configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, format := e.opts.logLevel, e.opts.logFormat
	if level == "" {
		level = cfg.Log.Level
	}
	if format == "" {
		format = cfg.Log.Format
	}
	if level == "" {
		level = "warn"
	}
	if format == "" {
		format = "text"
	}
	a, err := app.New(ctx, cfg, logger.New(level, format))
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

func (e *env) close() {
	if e.app != nil {
		_ = e.app.Close(context.Background())
		e.app = nil
	}
}

// NewRootCommand builds the resumectl command tree.
func NewRootCommand() *cobra.Command {
	return newRoot(&env{opts: &rootOptions{}})
}

func newRoot(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Generate, score, edit and export resumes with the AI resume builder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&e.opts.configPath, "config", "", "config file (default $RESUMECRAFT_CONFIG or configs/config.yaml)")
	root.PersistentFlags().StringVar(&e.opts.logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	root.PersistentFlags().StringVar(&e.opts.logFormat, "log-format", "", "log format (json|text)")

	root.AddCommand(
		newLoginCommand(e),
		newLogoutCommand(e),
		newWhoamiCommand(e),
		newGenerateCommand(e),
		newResumeCommand(e),
		newATSCommand(e),
		newExportCommand(e),
		newAdminCommand(e),
		newServeCommand(e),
	)
	return root
}

// Execute runs resumectl and returns the process exit code.
func Execute(ctx context.Context) int {
	e := &env{opts: &rootOptions{}}
	defer e.close()

	root := newRoot(e)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", utils.Message(err))
		return 1
	}
	return 0
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
