package services

import (
	"context"
	"io"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
)

// Backend is the resume API as used by the services. *resumeapi.Client implements it.
type Backend interface {
	LoginURL() string
	GenerateResume(ctx context.Context, in models.GenerateRequest) ([]byte, error)
	ATSScore(ctx context.Context, fileName, contentType string, r io.Reader) ([]byte, error)
	Me(ctx context.Context) (models.User, error)
	MeWithToken(ctx context.Context, token string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GrantAdmin(ctx context.Context, id string) error
	RevokeAdmin(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
	LatexGenerate(ctx context.Context, in models.LatexGenerateRequest) (models.LatexDocument, error)
	LatexCompile(ctx context.Context, code string) ([]byte, error)
	LatexTemplates(ctx context.Context) (map[string]string, error)
	Health(ctx context.Context) (map[string]any, error)
}
