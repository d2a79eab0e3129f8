package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/normalize"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/repositories/state"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/workers"
)

// MinDescriptionLength is the shortest description the generator accepts.
const MinDescriptionLength = 50

type ResumeService interface {
	Generate(ctx context.Context, description, template string) (models.Resume, error)
	Load(ctx context.Context) (models.Resume, error)
	Save(ctx context.Context, r models.Resume) (models.Resume, error)
	// Import accepts any resume-shaped JSON, including legacy and wrapped forms.
	Import(ctx context.Context, raw []byte) (models.Resume, error)
	// ScheduleSave debounces autosave; a newer call supersedes a pending or running one.
	ScheduleSave(ctx context.Context, r models.Resume) uint64
	// Flush waits for a scheduled save to finish.
	Flush()
	Close()
}

type resumeService struct {
	backend         Backend
	sessions        state.SessionRepository
	autosave        *workers.Debouncer
	defaultTemplate string
	log             *logrus.Logger
}

func NewResumeService(backend Backend, sessions state.SessionRepository, autosave *workers.Debouncer, defaultTemplate string, log *logrus.Logger) ResumeService {
	if defaultTemplate == "" {
		defaultTemplate = models.DefaultGenerationTemplate
	}
	return &resumeService{
		backend:         backend,
		sessions:        sessions,
		autosave:        autosave,
		defaultTemplate: defaultTemplate,
		log:             log,
	}
}

func (s *resumeService) Generate(ctx context.Context, description, template string) (models.Resume, error) {
	const op = "ResumeService.Generate"

	description = strings.TrimSpace(description)
	if description == "" {
		return models.Resume{}, utils.E(utils.CodeInvalidArgument, op, "please describe your experience", nil)
	}
	if utf8.RuneCountInString(description) < MinDescriptionLength {
		return models.Resume{}, utils.E(utils.CodeInvalidArgument, op,
			"please provide a more detailed description (at least 50 characters)", nil)
	}
	template, ok := models.NormalizeTemplate(template, s.defaultTemplate, models.GenerationTemplates)
	if !ok {
		return models.Resume{}, utils.E(utils.CodeInvalidArgument, op,
			"unknown template, use one of: "+strings.Join(models.GenerationTemplates, ", "), nil)
	}

	raw, err := s.backend.GenerateResume(ctx, models.GenerateRequest{
		UserResumeDescription: description,
		TemplateType:          template,
	})
	if err != nil {
		return models.Resume{}, err
	}

	r, err := normalize.Resume(raw)
	if err != nil {
		return models.Resume{}, decodeError(op, "could not read the generated resume", err)
	}
	if r.IsEmpty() {
		return models.Resume{}, utils.E(utils.CodeDecode, op, "the generated resume is empty", nil)
	}
	s.dump("generated resume", r)

	if err := s.sessions.SaveResume(ctx, r); err != nil {
		return models.Resume{}, utils.E(utils.CodeInternal, op, "failed to store resume", err)
	}
	if err := s.sessions.SaveTemplate(ctx, template); err != nil {
		return models.Resume{}, utils.E(utils.CodeInternal, op, "failed to store template", err)
	}
	s.log.WithField("template", template).Info("resume generated")
	return r, nil
}

func (s *resumeService) Load(ctx context.Context) (models.Resume, error) {
	const op = "ResumeService.Load"

	r, err := s.sessions.GetResume(ctx)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return models.Resume{}, utils.E(utils.CodeNotFound, op, "no resume yet, generate one first", err)
		}
		var de *normalize.DecodeError
		if errors.As(err, &de) {
			return models.Resume{}, utils.E(utils.CodeDecode, op, "the stored resume could not be read", err)
		}
		return models.Resume{}, utils.E(utils.CodeInternal, op, "failed to read resume", err)
	}
	return r, nil
}

func (s *resumeService) Save(ctx context.Context, r models.Resume) (models.Resume, error) {
	const op = "ResumeService.Save"

	r.EnsureDefaults()
	if err := s.sessions.SaveResume(ctx, r); err != nil {
		return models.Resume{}, utils.E(utils.CodeInternal, op, "failed to store resume", err)
	}
	return r, nil
}

func (s *resumeService) Import(ctx context.Context, raw []byte) (models.Resume, error) {
	const op = "ResumeService.Import"

	r, err := normalize.Resume(raw)
	if err != nil {
		return models.Resume{}, decodeError(op, "not a resume document", err)
	}
	s.dump("imported resume", r)
	return s.Save(ctx, r)
}

func (s *resumeService) ScheduleSave(ctx context.Context, r models.Resume) uint64 {
	r.EnsureDefaults()
	return s.autosave.Trigger(ctx, func(ctx context.Context) error {
		return s.sessions.SaveResume(ctx, r)
	})
}

func (s *resumeService) Flush() { s.autosave.Wait() }

func (s *resumeService) Close() {
	s.autosave.Wait()
	s.autosave.Stop()
}

func (s *resumeService) dump(msg string, v any) {
	if s.log.IsLevelEnabled(logrus.DebugLevel) {
		s.log.WithField("value", spew.Sdump(v)).Debug(msg)
	}
}

// decodeError reports a normalizer failure. A backend error envelope carries a
// message worth showing as is.
func decodeError(op, msg string, err error) error {
	var de *normalize.DecodeError
	if errors.As(err, &de) && de.Stage == normalize.StageEnvelope {
		return utils.E(utils.CodeDecode, op, de.Err.Error(), err)
	}
	return utils.E(utils.CodeDecode, op, msg, err)
}
