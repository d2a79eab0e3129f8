package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/providers/document"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/render"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/repositories/state"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/storage"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/telemetry"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/workers"
)

const (
	contentTypeHTML  = "text/html; charset=utf-8"
	contentTypePDF   = "application/pdf"
	contentTypeLatex = "application/x-tex"
)

// PDFRenderer prints HTML to PDF. *pdf.Renderer implements it.
type PDFRenderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

type ExportOptions struct {
	// Template overrides the selected template.
	Template string
	// Store writes the artifact to the configured sink and fills Location.
	Store bool
	// SignedTTL, with Store, also fills URL with a temporary download link.
	SignedTTL time.Duration
}

type ExportService interface {
	HTML(ctx context.Context, opts ExportOptions) (models.Artifact, error)
	PDF(ctx context.Context, opts ExportOptions) (models.Artifact, error)
	LaTeX(ctx context.Context, opts ExportOptions) (models.LatexDocument, models.Artifact, error)
	Compile(ctx context.Context, code string, opts ExportOptions) (models.Artifact, error)
	Templates(ctx context.Context) (map[string]string, error)
	Health(ctx context.Context) (map[string]any, error)
	// WatchCompile compiles path now and again after every change, debounced. It
	// blocks until ctx is done.
	WatchCompile(ctx context.Context, path string, opts ExportOptions, onResult func(models.Artifact, error)) error
}

type exportService struct {
	backend       Backend
	sessions      state.SessionRepository
	renderer      PDFRenderer
	sink          storage.Uploader
	autoCompile   *workers.Debouncer
	latexTemplate string
	log           *logrus.Logger
}

// NewExportService builds the export service. latexTemplate is the LaTeX template
// used when neither the caller nor the selected template names one.
func NewExportService(backend Backend, sessions state.SessionRepository, renderer PDFRenderer, sink storage.Uploader, autoCompile *workers.Debouncer, latexTemplate string, log *logrus.Logger) ExportService {
	latexTemplate, ok := models.NormalizeTemplate(latexTemplate, models.DefaultLatexTemplate, models.LatexTemplates)
	if !ok {
		latexTemplate = models.DefaultLatexTemplate
	}
	return &exportService{
		backend:       backend,
		sessions:      sessions,
		renderer:      renderer,
		sink:          sink,
		autoCompile:   autoCompile,
		latexTemplate: latexTemplate,
		log:           log,
	}
}

func (s *exportService) load(ctx context.Context, op string) (models.Session, models.Resume, error) {
	ss, err := s.sessions.Load(ctx)
	if err != nil {
		return models.Session{}, models.Resume{}, utils.E(utils.CodeInternal, op, "failed to read session", err)
	}
	if ss.ResumeErr != nil {
		return models.Session{}, models.Resume{}, utils.E(utils.CodeDecode, op, "the stored resume could not be read", ss.ResumeErr)
	}
	if ss.GeneratedResume == nil {
		return models.Session{}, models.Resume{}, utils.E(utils.CodeNotFound, op, "no resume yet, generate one first", utils.ErrNotFound)
	}
	return ss, *ss.GeneratedResume, nil
}

func (s *exportService) HTML(ctx context.Context, opts ExportOptions) (models.Artifact, error) {
	const op = "ExportService.HTML"

	ss, r, err := s.load(ctx, op)
	if err != nil {
		return models.Artifact{}, err
	}
	html, err := render.HTML(r, pick(opts.Template, ss.SelectedTemplate))
	if err != nil {
		return models.Artifact{}, s.failed("html", utils.E(utils.CodeInternal, op, "failed to render resume", err))
	}
	return s.finish(ctx, op, "html", models.Artifact{
		FileName:    utils.ExportFileName(r.PersonalInformation.FullName, ".html"),
		ContentType: contentTypeHTML,
		Data:        html,
	}, opts)
}

func (s *exportService) PDF(ctx context.Context, opts ExportOptions) (models.Artifact, error) {
	const op = "ExportService.PDF"

	if s.renderer == nil {
		return models.Artifact{}, utils.E(utils.CodeUnavailable, op, "PDF rendering is not configured", nil)
	}
	ss, r, err := s.load(ctx, op)
	if err != nil {
		return models.Artifact{}, err
	}
	html, err := render.HTML(r, pick(opts.Template, ss.SelectedTemplate))
	if err != nil {
		return models.Artifact{}, s.failed("pdf", utils.E(utils.CodeInternal, op, "failed to render resume", err))
	}
	out, err := s.renderer.Render(ctx, html)
	if err != nil {
		return models.Artifact{}, s.failed("pdf", utils.E(utils.CodeUnavailable, op, "failed to print PDF", err))
	}
	return s.finish(ctx, op, "pdf", models.Artifact{
		FileName:    utils.ExportFileName(r.PersonalInformation.FullName, ".pdf"),
		ContentType: contentTypePDF,
		Pages:       s.pages(out),
		Data:        out,
	}, opts)
}

func (s *exportService) LaTeX(ctx context.Context, opts ExportOptions) (models.LatexDocument, models.Artifact, error) {
	const op = "ExportService.LaTeX"

	ss, r, err := s.load(ctx, op)
	if err != nil {
		return models.LatexDocument{}, models.Artifact{}, err
	}

	template := opts.Template
	if template == "" {
		// the generation template only carries over when LaTeX has it too
		if t, ok := models.NormalizeTemplate(ss.SelectedTemplate, s.latexTemplate, models.LatexTemplates); ok {
			template = t
		}
	}
	template, ok := models.NormalizeTemplate(template, s.latexTemplate, models.LatexTemplates)
	if !ok {
		return models.LatexDocument{}, models.Artifact{}, utils.E(utils.CodeInvalidArgument, op,
			"unknown LaTeX template, use one of: "+strings.Join(models.LatexTemplates, ", "), nil)
	}

	doc, err := s.backend.LatexGenerate(ctx, models.LatexGenerateRequest{ResumeData: r, TemplateType: template})
	if err != nil {
		return models.LatexDocument{}, models.Artifact{}, s.failed("latex", err)
	}
	art, err := s.finish(ctx, op, "latex", models.Artifact{
		FileName:    utils.ExportFileName(r.PersonalInformation.FullName, ".tex"),
		ContentType: contentTypeLatex,
		Data:        []byte(doc.LatexCode),
	}, opts)
	if err != nil {
		return models.LatexDocument{}, models.Artifact{}, err
	}
	return doc, art, nil
}

func (s *exportService) Compile(ctx context.Context, code string, opts ExportOptions) (models.Artifact, error) {
	const op = "ExportService.Compile"

	out, err := s.backend.LatexCompile(ctx, code)
	if err != nil {
		return models.Artifact{}, s.failed("compile", err)
	}

	name := ""
	if r, err := s.sessions.GetResume(ctx); err == nil {
		name = r.PersonalInformation.FullName
	}
	return s.finish(ctx, op, "compile", models.Artifact{
		FileName:    utils.ExportFileName(name, ".pdf"),
		ContentType: contentTypePDF,
		Pages:       s.pages(out),
		Data:        out,
	}, opts)
}

func (s *exportService) Templates(ctx context.Context) (map[string]string, error) {
	return s.backend.LatexTemplates(ctx)
}

func (s *exportService) Health(ctx context.Context) (map[string]any, error) {
	return s.backend.Health(ctx)
}

func (s *exportService) WatchCompile(ctx context.Context, path string, opts ExportOptions, onResult func(models.Artifact, error)) error {
	const op = "ExportService.WatchCompile"

	abs, err := filepath.Abs(path)
	if err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "invalid path", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return utils.E(utils.CodeNotFound, op, "file not found", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to watch file", err)
	}
	defer w.Close()
	// editors often replace the file, so watch its directory
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to watch file", err)
	}
	defer s.autoCompile.Wait()
	// pending and running compiles end with the watch
	defer s.autoCompile.Cancel()

	compile := func() {
		s.autoCompile.Trigger(ctx, func(runCtx context.Context) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			code, err := os.ReadFile(abs)
			if err != nil {
				onResult(models.Artifact{}, utils.E(utils.CodeNotFound, op, "could not read file", err))
				return err
			}
			art, err := s.Compile(runCtx, string(code), opts)
			if runCtx.Err() != nil || ctx.Err() != nil {
				// superseded by a newer change, or the watch ended
				return context.Canceled
			}
			onResult(art, err)
			return err
		})
	}
	compile()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.log.WithField("file", abs).Debug("tex changed")
			compile()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.WithError(err).Warn("file watcher error")
		}
	}
}

// finish stores the artifact when asked and records the export.
func (s *exportService) finish(ctx context.Context, op, format string, art models.Artifact, opts ExportOptions) (models.Artifact, error) {
	art.Size = len(art.Data)
	if opts.SignedTTL > 0 && !opts.Store {
		return models.Artifact{}, utils.E(utils.CodeInvalidArgument, op, "a download link needs the export to be stored", nil)
	}
	if opts.Store {
		if s.sink == nil {
			return models.Artifact{}, s.failed(format, utils.E(utils.CodeUnavailable, op, "no export destination configured", nil))
		}
		loc, err := s.sink.Upload(ctx, art.FileName, art.ContentType, bytes.NewReader(art.Data))
		if err != nil {
			return models.Artifact{}, s.failed(format, utils.E(utils.CodeUnavailable, op, "failed to write export", err))
		}
		art.Location = loc

		if opts.SignedTTL > 0 {
			signer, ok := s.sink.(storage.Signer)
			if !ok {
				return models.Artifact{}, s.failed(format, utils.E(utils.CodeInvalidArgument, op, "the export destination cannot create download links", nil))
			}
			url, err := signer.SignedGetURL(ctx, art.FileName, opts.SignedTTL)
			if err != nil {
				return models.Artifact{}, s.failed(format, utils.E(utils.CodeUnavailable, op, "failed to sign download link", err))
			}
			art.URL = url
		}
	}
	telemetry.Exports.WithLabelValues(format, "ok").Inc()
	s.log.WithFields(logrus.Fields{"format": format, "file": art.FileName, "size": art.Size, "location": art.Location}).Info("exported")
	return art, nil
}

func (s *exportService) failed(format string, err error) error {
	telemetry.Exports.WithLabelValues(format, "failed").Inc()
	return err
}

func (s *exportService) pages(pdf []byte) int {
	n, err := document.PDFPages(pdf)
	if err != nil {
		s.log.WithError(err).Debug("could not count pdf pages")
		return 0
	}
	return n
}

func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
