package services

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/workers"
)

const longDescription = "Backend engineer with eight years of Go, Kubernetes and Postgres experience building payment systems."

func signIn(t *testing.T, e *env, role models.UserRole) {
	t.Helper()
	require.NoError(t, e.repo.SaveAuth(context.Background(), "tok-123", "Ada", "ada@example.com", role))
}

func TestCompleteLoginUsesBackendRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.auth.CompleteLogin(ctx, " tok-123 ", "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "Bearer tok-123", e.backend.authHeader())

	ss, err := e.auth.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", ss.AuthToken)
	assert.Equal(t, models.RoleAdmin, ss.UserRole)
}

func TestCompleteLoginFallsBackToUser(t *testing.T) {
	e := newEnv(t)
	e.backend.set(func(f *fakeBackend) { f.meStatus = 500 })

	u, err := e.auth.CompleteLogin(context.Background(), "tok", "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, u.Authenticated)
}

func TestCompleteLoginRequiresAllFields(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.CompleteLogin(context.Background(), "tok", "", "ada@example.com")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Zero(t, e.backend.count("me"))
}

func TestLogoutClearsEverything(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	signIn(t, e, models.RoleAdmin)
	_, err := e.resume.Generate(ctx, longDescription, "ats")
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(ctx))

	ss, err := e.auth.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Session{}, ss)
	cur, err := e.auth.Current(ctx)
	require.NoError(t, err)
	assert.False(t, cur.Authenticated)

	_, err = e.resume.Load(ctx)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestSyncRolePicksUpRevocation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	signIn(t, e, models.RoleAdmin)
	e.backend.set(func(f *fakeBackend) { f.meRole = "USER" })

	u, err := e.auth.SyncRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	ss, _ := e.repo.Load(ctx)
	assert.Equal(t, models.RoleUser, ss.UserRole)
}

func TestGenerateValidatesBeforeCalling(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := map[string]struct {
		description string
		template    string
	}{
		"empty":            {"   ", ""},
		"too short":        {"I write Go.", ""},
		"unknown template": {longDescription, "baroque"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := e.resume.Generate(ctx, tt.description, tt.template)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}
	assert.Zero(t, e.backend.count("generate"))
}

func TestGenerateStoresNormalizedResume(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	// the backend double-encodes the wrapped payload
	e.backend.set(func(f *fakeBackend) { f.generateBody = `"{\"think\":\"ok\",\"data\":{\"personalInfo\":{\"name\":\"Ada Lovelace\"},\"skills\":\"Go, Redis\"}}"` })

	r, err := e.resume.Generate(ctx, longDescription, "Executive")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", r.PersonalInformation.FullName)
	assert.Equal(t, []models.Skill{{Title: "Go"}, {Title: "Redis"}}, r.Skills)

	ss, err := e.repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "executive", ss.SelectedTemplate)
	require.NotNil(t, ss.GeneratedResume)
	assert.Equal(t, r, *ss.GeneratedResume)
}

func TestGenerateSurfacesBackendErrorEnvelope(t *testing.T) {
	e := newEnv(t)
	e.backend.set(func(f *fakeBackend) { f.generateBody = `{"think":"hmm","data":null,"error":"Bad Request","message":"Description too vague"}` })

	_, err := e.resume.Generate(context.Background(), longDescription, "")
	assert.True(t, utils.IsCode(err, utils.CodeDecode))
	assert.Equal(t, "Description too vague", utils.Message(err))

	_, err = e.resume.Load(context.Background())
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := models.NewResume()
	in.PersonalInformation.FullName = "Grace Hopper"
	in.Skills = []models.Skill{{Title: "COBOL", Level: "Expert"}}
	in.Experience = []models.Experience{{JobTitle: "Rear Admiral", Company: "US Navy"}}

	saved, err := e.resume.Save(ctx, in)
	require.NoError(t, err)
	out, err := e.resume.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, out)
}

func TestImportAcceptsLegacyShapes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	r, err := e.resume.Import(ctx, []byte(`{"resume":{"personalInfo":{"name":"Linus"},"skills":{"os":["C"]}}}`))
	require.NoError(t, err)
	assert.Equal(t, "Linus", r.PersonalInformation.FullName)

	loaded, err := e.resume.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, r, loaded)

	_, err = e.resume.Import(ctx, []byte(`[1,2,3]`))
	assert.True(t, utils.IsCode(err, utils.CodeDecode))
}

func TestScheduleSaveKeepsLatest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := models.NewResume()
	first.Summary = "first draft"
	second := models.NewResume()
	second.Summary = "second draft"

	e.resume.ScheduleSave(ctx, first)
	e.resume.ScheduleSave(ctx, second)
	e.resume.Flush()

	r, err := e.resume.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second draft", r.Summary)
}

func TestScheduleSaveOutlivesCaller(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	r := models.NewResume()
	r.Summary = "typed then left"
	e.resume.ScheduleSave(ctx, r)
	cancel()
	e.resume.Flush()

	got, err := e.resume.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "typed then left", got.Summary)
}

func TestATSRejectsBadFilesLocally(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := map[string]struct {
		name string
		data []byte
	}{
		"wrong type": {"resume.txt", []byte("plain text")},
		"empty":      {"resume.pdf", nil},
		"too large":  {"resume.pdf", append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), int(utils.MaxUploadBytes))...)},
		"not a pdf":  {"resume.pdf", []byte("<html><body>hi</body></html>")},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := e.ats.Check(ctx, tt.name, bytes.NewReader(tt.data))
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}
	assert.Zero(t, e.backend.count("ats"))
}

func TestATSCheckScoresUpload(t *testing.T) {
	e := newEnv(t)
	signIn(t, e, models.RoleUser)

	res, err := e.ats.Check(context.Background(), "resume.pdf", strings.NewReader("%PDF-1.4\n%resume\n"))
	require.NoError(t, err)
	require.NotNil(t, res.Score)
	assert.Equal(t, 70, *res.Score)
	assert.Equal(t, "Good", res.Label)
	assert.Equal(t, []string{"Go"}, res.Keywords)
	assert.Equal(t, []string{"K8s"}, res.MissingKeywords)
	assert.Equal(t, 1, e.backend.count("ats"))
}

func TestAdminVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("signed out", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.admin.Verify(ctx)
		assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	})

	t.Run("plain user", func(t *testing.T) {
		e := newEnv(t)
		signIn(t, e, models.RoleUser)
		_, err := e.admin.Verify(ctx)
		assert.True(t, utils.IsCode(err, utils.CodeForbidden))
		assert.Zero(t, e.backend.count("me"))
	})

	t.Run("revoked since login", func(t *testing.T) {
		e := newEnv(t)
		signIn(t, e, models.RoleAdmin)
		e.backend.set(func(f *fakeBackend) { f.meRole = "USER" })

		_, err := e.admin.Verify(ctx)
		assert.True(t, utils.IsCode(err, utils.CodeForbidden))
		ss, _ := e.repo.Load(ctx)
		assert.Equal(t, models.RoleUser, ss.UserRole)
	})

	t.Run("admin", func(t *testing.T) {
		e := newEnv(t)
		signIn(t, e, models.RoleAdmin)
		me, err := e.admin.Verify(ctx)
		require.NoError(t, err)
		assert.True(t, me.IsAdmin())
	})
}

func findUser(users []models.User, id string) models.User {
	for _, u := range users {
		if string(u.ID) == id {
			return u
		}
	}
	return models.User{}
}

func TestAdminGrantRevokeDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	signIn(t, e, models.RoleAdmin)

	users, err := e.admin.Grant(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, findUser(users, "2").Role)
	assert.Equal(t, 2, Stats(users).Admins)

	users, err = e.admin.Revoke(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, findUser(users, "2").Role)

	users, err = e.admin.Delete(ctx, "3")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = e.admin.Grant(ctx, "99")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	assert.Equal(t, "User not found", utils.Message(err))
}

func TestAdminSnapshot(t *testing.T) {
	e := newEnv(t)
	signIn(t, e, models.RoleAdmin)

	snap, err := e.admin.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Users, 3)
	assert.Equal(t, models.UserStats{TotalUsers: 3, Admins: 1, RegularUsers: 2}, snap.Stats)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestStatsAndSearch(t *testing.T) {
	users := []models.User{
		{ID: "1", Name: "Ada Admin", Email: "ada@example.com", Role: models.RoleAdmin},
		{ID: "2", Name: "Bob", Email: "bob@example.com", Role: "user"},
		{ID: "3", Name: "Cy", Email: "CY@Example.org", Role: models.RoleUser},
	}

	assert.Equal(t, models.UserStats{TotalUsers: 3, Admins: 1, RegularUsers: 2}, Stats(users))
	assert.Equal(t, models.UserStats{}, Stats(nil))

	assert.Len(t, Search(users, ""), 3)
	assert.Len(t, Search(users, "example.com"), 2)
	got := Search(users, "  example.ORG ")
	require.Len(t, got, 1)
	assert.Equal(t, "Cy", got[0].Name)
	assert.Empty(t, Search(users, "nobody"))
}

func TestExportRequiresResume(t *testing.T) {
	e := newEnv(t)

	_, err := e.export.HTML(context.Background(), ExportOptions{})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	_, _, err = e.export.LaTeX(context.Background(), ExportOptions{})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	assert.Zero(t, e.backend.count("latex"))
}

func TestExportHTMLAndPDF(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	signIn(t, e, models.RoleUser)
	_, err := e.resume.Generate(ctx, longDescription, "creative")
	require.NoError(t, err)

	art, err := e.export.HTML(ctx, ExportOptions{Store: true})
	require.NoError(t, err)
	assert.Equal(t, "Ada_Lovelace.html", art.FileName)
	assert.Contains(t, string(art.Data), "Ada Lovelace")
	stored, err := os.ReadFile(art.Location)
	require.NoError(t, err)
	assert.Equal(t, art.Data, stored)
	assert.Equal(t, e.outDir, filepath.Dir(art.Location))

	pdf, err := e.export.PDF(ctx, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.Empty(t, pdf.Location)
	assert.Contains(t, string(e.renderer.html), "Ada Lovelace")
}

func TestExportLaTeXTemplateCarryOver(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	signIn(t, e, models.RoleUser)

	_, err := e.resume.Generate(ctx, longDescription, "executive")
	require.NoError(t, err)
	doc, art, err := e.export.LaTeX(ctx, ExportOptions{})
	require.NoError(t, err)
	// executive has no LaTeX counterpart
	assert.Equal(t, "professional", e.backend.latexTemplate())
	assert.Equal(t, "professional", doc.TemplateType)
	assert.Equal(t, "Ada_Lovelace.tex", art.FileName)

	require.NoError(t, e.repo.SaveTemplate(ctx, "ats"))
	_, _, err = e.export.LaTeX(ctx, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ats", e.backend.latexTemplate())

	_, _, err = e.export.LaTeX(ctx, ExportOptions{Template: "executive"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestCompile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	art, err := e.export.Compile(ctx, `\documentclass{article}`, ExportOptions{Store: true})
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", art.FileName)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF-")))
	assert.FileExists(t, art.Location)

	_, err = e.export.Compile(ctx, "broken", ExportOptions{})
	require.Error(t, err)
	assert.Equal(t, "Undefined control sequence", utils.Message(err))

	_, err = e.export.Compile(ctx, "  ", ExportOptions{})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestTemplatesAndHealth(t *testing.T) {
	e := newEnv(t)

	tpl, err := e.export.Templates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"professional": "Professional"}, tpl)

	h, err := e.export.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "UP", h["status"])
}

func TestWatchCompileRecompilesOnChange(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "resume.tex")
	require.NoError(t, os.WriteFile(path, []byte(`\documentclass{article}`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan error, 8)
	done := make(chan error, 1)
	go func() {
		done <- e.export.WatchCompile(ctx, path, ExportOptions{}, func(_ models.Artifact, err error) {
			results <- err
		})
	}()

	select {
	case err := <-results:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("initial compile did not run")
	}

	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o644))
	select {
	case err := <-results:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a compile")
	}
	compiles := e.backend.count("compile")

	// a change still inside the debounce window when the watch ends is dropped
	require.NoError(t, os.WriteFile(path, []byte(`\documentclass{report}`), 0o644))
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, compiles, e.backend.count("compile"))
	assert.Empty(t, results)
}

func TestExportLaTeXConfiguredDefault(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	signIn(t, e, models.RoleUser)

	_, err := e.resume.Generate(ctx, longDescription, "executive")
	require.NoError(t, err)

	export := NewExportService(e.client, e.repo, e.renderer, nil,
		workers.NewDebouncer("autocompile", 20*time.Millisecond, quietLogger()), "Creative", quietLogger())
	doc, _, err := export.LaTeX(ctx, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "creative", e.backend.latexTemplate())
	assert.Equal(t, "creative", doc.TemplateType)

	// the selected template still wins when LaTeX has it
	require.NoError(t, e.repo.SaveTemplate(ctx, "ats"))
	_, _, err = export.LaTeX(ctx, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ats", e.backend.latexTemplate())
}

// signingSink records uploads and signs links to them.
type signingSink struct {
	objects []string
}

func (s *signingSink) Upload(_ context.Context, name, _ string, _ io.Reader) (string, error) {
	s.objects = append(s.objects, name)
	return "gs://exports/" + name, nil
}

func (s *signingSink) SignedGetURL(_ context.Context, name string, ttl time.Duration) (string, error) {
	return "https://storage.example/exports/" + name + "?ttl=" + ttl.String(), nil
}

func TestExportSignedLink(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	signIn(t, e, models.RoleUser)
	_, err := e.resume.Generate(ctx, longDescription, "modern")
	require.NoError(t, err)

	sink := &signingSink{}
	export := NewExportService(e.client, e.repo, e.renderer, sink,
		workers.NewDebouncer("autocompile", 20*time.Millisecond, quietLogger()), "", quietLogger())

	art, err := export.HTML(ctx, ExportOptions{Store: true, SignedTTL: 15 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, "gs://exports/Ada_Lovelace.html", art.Location)
	assert.Equal(t, "https://storage.example/exports/Ada_Lovelace.html?ttl=15m0s", art.URL)

	art, err = export.HTML(ctx, ExportOptions{Store: true})
	require.NoError(t, err)
	assert.Empty(t, art.URL)

	_, err = export.HTML(ctx, ExportOptions{SignedTTL: time.Minute})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	// the local directory sink cannot sign
	_, err = e.export.HTML(ctx, ExportOptions{Store: true, SignedTTL: time.Minute})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "42",
		"email": "ada@example.com",
		"role":  "admin",
		"exp":   exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("not-the-backend-key"))
	require.NoError(t, err)

	info, err := InspectToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "42", info.Subject)
	assert.Equal(t, models.RoleAdmin, info.Role)
	require.NotNil(t, info.ExpiresAt)
	assert.True(t, exp.Equal(*info.ExpiresAt))

	info, err = InspectToken("opaque-session-token")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Equal(t, models.RoleUser, info.Role)
}
