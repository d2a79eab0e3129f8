package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/repositories/state"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type AdminService interface {
	// Verify requires a stored ADMIN session and confirms it with the backend. A
	// revoked role is written back to the session before failing with FORBIDDEN.
	Verify(ctx context.Context) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	Snapshot(ctx context.Context) (models.AdminSnapshot, error)
	// Grant, Revoke and Delete return the refreshed user list.
	Grant(ctx context.Context, id string) ([]models.User, error)
	Revoke(ctx context.Context, id string) ([]models.User, error)
	Delete(ctx context.Context, id string) ([]models.User, error)
}

type adminService struct {
	backend  Backend
	sessions state.SessionRepository
	log      *logrus.Logger
	now      func() time.Time
}

func NewAdminService(backend Backend, sessions state.SessionRepository, log *logrus.Logger) AdminService {
	return &adminService{backend: backend, sessions: sessions, log: log, now: time.Now}
}

func (s *adminService) Verify(ctx context.Context) (models.User, error) {
	const op = "AdminService.Verify"

	ss, err := s.sessions.Load(ctx)
	if err != nil {
		return models.User{}, utils.E(utils.CodeInternal, op, "failed to read session", err)
	}
	if !ss.Authenticated() {
		return models.User{}, utils.E(utils.CodeUnauthorized, op, "please sign in first", nil)
	}
	if ss.UserRole != models.RoleAdmin {
		return models.User{}, utils.E(utils.CodeForbidden, op, "access denied: admin privileges required", nil)
	}

	me, err := s.backend.Me(ctx)
	if err != nil {
		return models.User{}, err
	}
	if me.Role != models.RoleAdmin {
		if err := s.sessions.SetRole(ctx, me.Role); err != nil {
			s.log.WithError(err).Warn("failed to store downgraded role")
		}
		s.log.WithField("email", ss.UserEmail).Warn("admin role revoked")
		return models.User{}, utils.E(utils.CodeForbidden, op, "admin privileges have been revoked", nil)
	}
	return me, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.backend.ListUsers(ctx)
}

func (s *adminService) Snapshot(ctx context.Context) (models.AdminSnapshot, error) {
	if _, err := s.Verify(ctx); err != nil {
		return models.AdminSnapshot{}, err
	}
	users, err := s.ListUsers(ctx)
	if err != nil {
		return models.AdminSnapshot{}, err
	}
	return models.AdminSnapshot{Users: users, Stats: Stats(users), FetchedAt: s.now().UTC()}, nil
}

func (s *adminService) Grant(ctx context.Context, id string) ([]models.User, error) {
	return s.act(ctx, "grant", id, s.backend.GrantAdmin)
}

func (s *adminService) Revoke(ctx context.Context, id string) ([]models.User, error) {
	return s.act(ctx, "revoke", id, s.backend.RevokeAdmin)
}

func (s *adminService) Delete(ctx context.Context, id string) ([]models.User, error) {
	return s.act(ctx, "delete", id, s.backend.DeleteUser)
}

func (s *adminService) act(ctx context.Context, action, id string, call func(context.Context, string) error) ([]models.User, error) {
	if err := call(ctx, id); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"action": action, "user_id": id}).Info("admin action")
	return s.ListUsers(ctx)
}

// Stats counts users by role.
func Stats(users []models.User) models.UserStats {
	st := models.UserStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.IsAdmin() {
			st.Admins++
		}
	}
	st.RegularUsers = st.TotalUsers - st.Admins
	return st
}

// Search keeps users whose name or email contains q, ignoring case. A blank q
// keeps everyone.
func Search(users []models.User, q string) []models.User {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return users
	}
	out := []models.User{}
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}
