package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/repositories/state"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type AuthService interface {
	LoginURL() string
	// CompleteLogin stores the OAuth callback data. The role comes from the backend;
	// when that lookup fails the user is stored as USER.
	CompleteLogin(ctx context.Context, token, name, email string) (models.CurrentUser, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (models.CurrentUser, error)
	Session(ctx context.Context) (models.Session, error)
	// SyncRole re-reads the role from the backend and stores it when it changed.
	SyncRole(ctx context.Context) (models.CurrentUser, error)
}

type authService struct {
	backend  Backend
	sessions state.SessionRepository
	log      *logrus.Logger
}

func NewAuthService(backend Backend, sessions state.SessionRepository, log *logrus.Logger) AuthService {
	return &authService{backend: backend, sessions: sessions, log: log}
}

func (s *authService) LoginURL() string { return s.backend.LoginURL() }

func (s *authService) CompleteLogin(ctx context.Context, token, name, email string) (models.CurrentUser, error) {
	const op = "AuthService.CompleteLogin"

	token, name, email = strings.TrimSpace(token), strings.TrimSpace(name), strings.TrimSpace(email)
	if token == "" || name == "" || email == "" {
		return models.CurrentUser{}, utils.E(utils.CodeInvalidArgument, op, "missing authentication data", nil)
	}

	role := models.RoleUser
	if me, err := s.backend.MeWithToken(ctx, token); err != nil {
		s.log.WithError(err).WithField("email", email).Warn("role lookup failed, defaulting to USER")
	} else {
		role = me.Role
	}

	if err := s.sessions.SaveAuth(ctx, token, name, email, role); err != nil {
		return models.CurrentUser{}, utils.E(utils.CodeInternal, op, "failed to store session", err)
	}
	s.log.WithFields(logrus.Fields{"email": email, "role": role}).Info("signed in")
	return models.CurrentUser{Authenticated: true, Name: name, Email: email, Role: role}, nil
}

func (s *authService) Logout(ctx context.Context) error {
	const op = "AuthService.Logout"

	if err := s.sessions.Clear(ctx); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to clear session", err)
	}
	s.log.Info("signed out")
	return nil
}

func (s *authService) Session(ctx context.Context) (models.Session, error) {
	const op = "AuthService.Session"

	ss, err := s.sessions.Load(ctx)
	if err != nil {
		return models.Session{}, utils.E(utils.CodeInternal, op, "failed to read session", err)
	}
	if ss.ResumeErr != nil {
		s.log.WithError(ss.ResumeErr).Warn("stored resume is unreadable, ignoring it")
	}
	return ss, nil
}

func (s *authService) Current(ctx context.Context) (models.CurrentUser, error) {
	ss, err := s.Session(ctx)
	if err != nil {
		return models.CurrentUser{}, err
	}
	return ss.CurrentUser(), nil
}

func (s *authService) SyncRole(ctx context.Context) (models.CurrentUser, error) {
	const op = "AuthService.SyncRole"

	ss, err := s.Session(ctx)
	if err != nil {
		return models.CurrentUser{}, err
	}
	if !ss.Authenticated() {
		return models.CurrentUser{}, utils.E(utils.CodeUnauthorized, op, "please sign in first", nil)
	}

	me, err := s.backend.Me(ctx)
	if err != nil {
		return models.CurrentUser{}, err
	}
	if me.Role != ss.UserRole {
		if err := s.sessions.SetRole(ctx, me.Role); err != nil {
			return models.CurrentUser{}, utils.E(utils.CodeInternal, op, "failed to store role", err)
		}
		s.log.WithFields(logrus.Fields{"from": ss.UserRole, "to": me.Role}).Info("role changed")
		ss.UserRole = me.Role
	}
	return ss.CurrentUser(), nil
}

// TokenInfo is what the client can read from a token without verifying it.
type TokenInfo struct {
	Subject   string          `json:"subject,omitempty"`
	Email     string          `json:"email,omitempty"`
	Role      models.UserRole `json:"role"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// InspectToken reads the claims of a JWT without checking its signature. The
// backend remains the authority; this is for display only.
func InspectToken(token string) (TokenInfo, error) {
	const op = "InspectToken"

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{Role: models.RoleUser}, utils.E(utils.CodeInvalidArgument, op, "token is not a JWT", err)
	}
	info := TokenInfo{Subject: claims.Subject, Email: claims.Email, Role: models.ParseRole(claims.Role)}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		info.ExpiresAt = &t
	}
	return info, nil
}

