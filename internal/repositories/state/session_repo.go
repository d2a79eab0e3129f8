// Package state persists the client session: auth data, the generated resume and
// the selected template.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/cache"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/normalize"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type SessionRepository interface {
	Load(ctx context.Context) (models.Session, error)
	Token(ctx context.Context) (string, error)
	SaveAuth(ctx context.Context, token, name, email string, role models.UserRole) error
	SetRole(ctx context.Context, role models.UserRole) error
	// GetResume returns utils.ErrNotFound when no resume is stored. Legacy values
	// are migrated and rewritten in the current schema.
	GetResume(ctx context.Context) (models.Resume, error)
	SaveResume(ctx context.Context, r models.Resume) error
	SaveTemplate(ctx context.Context, template string) error
	Clear(ctx context.Context) error
}

type sessionRepo struct {
	c cache.Cache
}

func NewSessionRepo(c cache.Cache) SessionRepository {
	return &sessionRepo{c: c}
}

func (r *sessionRepo) getString(ctx context.Context, key string) (string, error) {
	var s string
	if _, err := r.c.GetJSON(ctx, key, &s); err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return s, nil
}

func (r *sessionRepo) setString(ctx context.Context, key, val string) error {
	if err := r.c.SetJSON(ctx, key, val, 0); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context) (models.Session, error) {
	var s models.Session
	var err error

	if s.AuthToken, err = r.getString(ctx, models.KeyAuthToken); err != nil {
		return models.Session{}, err
	}
	if s.UserName, err = r.getString(ctx, models.KeyUserName); err != nil {
		return models.Session{}, err
	}
	if s.UserEmail, err = r.getString(ctx, models.KeyUserEmail); err != nil {
		return models.Session{}, err
	}
	role, err := r.getString(ctx, models.KeyUserRole)
	if err != nil {
		return models.Session{}, err
	}
	if role != "" {
		s.UserRole = models.ParseRole(role)
	}
	if s.SelectedTemplate, err = r.getString(ctx, models.KeySelectedTemplate); err != nil {
		return models.Session{}, err
	}

	resume, err := r.GetResume(ctx)
	switch {
	case err == nil:
		s.GeneratedResume = &resume
	case errors.Is(err, utils.ErrNotFound):
	case isDecodeError(err):
		// auth fields stay usable; callers see the failure through ResumeErr
		s.ResumeErr = err
	default:
		return models.Session{}, err
	}
	return s, nil
}

func isDecodeError(err error) bool {
	var de *normalize.DecodeError
	return errors.As(err, &de)
}

func (r *sessionRepo) Token(ctx context.Context) (string, error) {
	return r.getString(ctx, models.KeyAuthToken)
}

func (r *sessionRepo) SaveAuth(ctx context.Context, token, name, email string, role models.UserRole) error {
	for _, kv := range [][2]string{
		{models.KeyAuthToken, token},
		{models.KeyUserName, name},
		{models.KeyUserEmail, email},
		{models.KeyUserRole, string(role)},
	} {
		if err := r.setString(ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func (r *sessionRepo) SetRole(ctx context.Context, role models.UserRole) error {
	return r.setString(ctx, models.KeyUserRole, string(role))
}

func (r *sessionRepo) GetResume(ctx context.Context) (models.Resume, error) {
	var raw json.RawMessage
	hit, err := r.c.GetJSON(ctx, models.KeyGeneratedResume, &raw)
	if err != nil {
		return models.Resume{}, fmt.Errorf("read %s: %w", models.KeyGeneratedResume, err)
	}
	if !hit || len(raw) == 0 || string(raw) == "null" {
		return models.Resume{}, utils.ErrNotFound
	}

	var stored struct {
		Version int             `json:"version"`
		Resume  json.RawMessage `json:"resume"`
	}
	if err := json.Unmarshal(raw, &stored); err == nil && stored.Version == models.ResumeSchemaVersion && len(stored.Resume) > 0 {
		var res models.Resume
		if err := json.Unmarshal(stored.Resume, &res); err != nil {
			return models.Resume{}, fmt.Errorf("read %s: %w", models.KeyGeneratedResume,
				&normalize.DecodeError{Stage: normalize.StageShape, Err: err})
		}
		res.EnsureDefaults()
		return res, nil
	}

	// version-less value written by an older client
	res, err := normalize.Resume(raw)
	if err != nil {
		return models.Resume{}, fmt.Errorf("migrate %s: %w", models.KeyGeneratedResume, err)
	}
	if err := r.SaveResume(ctx, res); err != nil {
		return models.Resume{}, err
	}
	return res, nil
}

func (r *sessionRepo) SaveResume(ctx context.Context, res models.Resume) error {
	res.EnsureDefaults()
	if err := r.c.SetJSON(ctx, models.KeyGeneratedResume, models.StoredResume{
		Version: models.ResumeSchemaVersion,
		Resume:  res,
	}, 0); err != nil {
		return fmt.Errorf("write %s: %w", models.KeyGeneratedResume, err)
	}
	return nil
}

func (r *sessionRepo) SaveTemplate(ctx context.Context, template string) error {
	return r.setString(ctx, models.KeySelectedTemplate, template)
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	if err := r.c.Del(ctx, models.SessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
