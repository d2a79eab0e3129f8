package services

import (
	"bytes"
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/normalize"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/providers/document"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/telemetry"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

// Inspector looks at a file before upload. *document.Inspector implements it.
type Inspector interface {
	Inspect(mimeType string, data []byte) (document.Report, error)
}

type ATSService interface {
	// Check validates the file locally, uploads it for scoring and interprets the
	// answer. Files of the wrong type or size never reach the network.
	Check(ctx context.Context, fileName string, r io.Reader) (models.ATSResult, error)
}

type atsService struct {
	backend   Backend
	inspector Inspector
	log       *logrus.Logger
}

func NewATSService(backend Backend, inspector Inspector, log *logrus.Logger) ATSService {
	return &atsService{backend: backend, inspector: inspector, log: log}
}

func (s *atsService) Check(ctx context.Context, fileName string, r io.Reader) (models.ATSResult, error) {
	const op = "ATSService.Check"

	// one byte past the limit is enough to know it is too large
	data, err := io.ReadAll(io.LimitReader(r, utils.MaxUploadBytes+1))
	if err != nil {
		return models.ATSResult{}, utils.E(utils.CodeInvalidArgument, op, "could not read file", err)
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType, err := utils.ValidateUpload(fileName, int64(len(data)), head)
	if err != nil {
		return models.ATSResult{}, err
	}

	entry := s.log.WithFields(logrus.Fields{"file": fileName, "mime": mimeType, "size": len(data)})
	if s.inspector != nil {
		rep, err := s.inspector.Inspect(mimeType, data)
		switch {
		case err == document.ErrUnsupported:
		case err != nil:
			entry.WithError(err).Warn("could not inspect resume locally")
		case rep.LowText():
			entry.WithFields(logrus.Fields{"pages": rep.Pages, "words": rep.Words}).
				Warn("resume has little extractable text, ATS parsers may not read it")
		default:
			entry = entry.WithFields(logrus.Fields{"pages": rep.Pages, "words": rep.Words})
		}
	}

	raw, err := s.backend.ATSScore(ctx, fileName, mimeType, bytes.NewReader(data))
	if err != nil {
		return models.ATSResult{}, err
	}

	res, err := normalize.ATS(raw)
	if err != nil {
		return models.ATSResult{}, decodeError(op, "could not read the ATS result", err)
	}
	if res.Score != nil {
		telemetry.ATSScores.Observe(float64(*res.Score))
		entry = entry.WithField("score", *res.Score)
	}
	entry.Info("ats check done")
	return res, nil
}
