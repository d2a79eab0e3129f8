package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/cache"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/providers/resumeapi"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/repositories/state"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/storage"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/workers"
)

// fakeBackend is an in-memory stand-in for the resume API.
type fakeBackend struct {
	mu sync.Mutex

	users    map[string]*models.User
	meRole   string
	meStatus int

	generateBody string
	atsBody      string
	lastLatexTpl string
	calls        map[string]int
	lastAuth     string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: map[string]*models.User{
			"1": {ID: "1", Name: "Ada Admin", Email: "ada@example.com", Role: models.RoleAdmin},
			"2": {ID: "2", Name: "Bob User", Email: "bob@example.com", Role: models.RoleUser},
			"3": {ID: "3", Name: "Cy Other", Email: "cy@example.org", Role: models.RoleUser},
		},
		meRole:       "ADMIN",
		generateBody: `{"data":{"personalInformation":{"fullName":"Ada Lovelace"},"summary":"Engineer","skills":["Go"]}}`,
		atsBody:      `{"atsScore":"7/10","keywords":["Go"],"missingKeywords":["K8s"]}`,
		calls:        map[string]int{},
	}
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// set mutates the fake while the server may be reading it.
func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeBackend) authHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *fakeBackend) latexTemplate() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLatexTpl
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	track := func(name string, h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.calls[name]++
			f.lastAuth = r.Header.Get("Authorization")
			f.mu.Unlock()
			h(w, r)
		}
	}
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /api/resume/generate", track("generate", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		body := f.generateBody
		f.mu.Unlock()
		w.Write([]byte(body))
	}))
	mux.HandleFunc("POST /api/resume/ats-score", track("ats", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, `{"message":"file missing"}`, http.StatusBadRequest)
			return
		}
		w.Write([]byte(f.atsBody))
	}))
	mux.HandleFunc("GET /api/user/me", track("me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status, role := f.meStatus, f.meRole
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"me failed"}`))
			return
		}
		writeJSON(w, map[string]any{"id": 1, "email": "ada@example.com", "role": role})
	}))
	mux.HandleFunc("GET /api/admin/users", track("users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ids := make([]string, 0, len(f.users))
		for id := range f.users {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out := make([]models.User, 0, len(ids))
		for _, id := range ids {
			out = append(out, *f.users[id])
		}
		f.mu.Unlock()
		writeJSON(w, out)
	}))
	setRole := func(role models.UserRole) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			u, ok := f.users[r.PathValue("id")]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message":"User not found"}`))
				return
			}
			u.Role = role
		}
	}
	mux.HandleFunc("PUT /api/admin/grant-admin/{id}", track("grant", setRole(models.RoleAdmin)))
	mux.HandleFunc("PUT /api/admin/revoke-admin/{id}", track("revoke", setRole(models.RoleUser)))
	mux.HandleFunc("DELETE /api/admin/delete-user/{id}", track("delete", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		delete(f.users, r.PathValue("id"))
		f.mu.Unlock()
	}))
	mux.HandleFunc("POST /api/latex/generate", track("latex", func(w http.ResponseWriter, r *http.Request) {
		var in models.LatexGenerateRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.lastLatexTpl = in.TemplateType
		f.mu.Unlock()
		writeJSON(w, map[string]any{"latexCode": `\documentclass{article}\begin{document}` + in.ResumeData.PersonalInformation.FullName + `\end{document}`, "templateType": in.TemplateType, "success": true})
	}))
	mux.HandleFunc("POST /api/latex/compile", track("compile", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if strings.Contains(string(b), "broken") {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Compilation failed","message":"Undefined control sequence"}`))
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4\n%fake\n"))
	}))
	mux.HandleFunc("GET /api/latex/templates", track("templates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"templates": map[string]string{"professional": "Professional"}, "success": true})
	}))
	mux.HandleFunc("GET /api/latex/health", track("health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "UP", "pdflatex": true})
	}))
	return mux
}

type fakeRenderer struct{ html []byte }

func (r *fakeRenderer) Render(_ context.Context, html []byte) ([]byte, error) {
	r.html = html
	return []byte("%PDF-1.7 rendered"), nil
}

type env struct {
	backend  *fakeBackend
	repo     state.SessionRepository
	client   *resumeapi.Client
	auth     AuthService
	resume   ResumeService
	ats      ATSService
	export   ExportService
	admin    AdminService
	renderer *fakeRenderer
	outDir   string
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := quietLogger()

	fb := newFakeBackend()
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	repo := state.NewSessionRepo(c)

	client, err := resumeapi.New(resumeapi.Config{BaseURL: srv.URL, Timeout: 5 * time.Second},
		resumeapi.TokenFunc(repo.Token), log)
	require.NoError(t, err)

	outDir := t.TempDir()
	sink, err := storage.NewLocalUploader(outDir)
	require.NoError(t, err)

	renderer := &fakeRenderer{}
	e := &env{
		backend:  fb,
		repo:     repo,
		client:   client,
		auth:     NewAuthService(client, repo, log),
		resume:   NewResumeService(client, repo, workers.NewDebouncer("autosave", 20*time.Millisecond, log), "", log),
		ats:      NewATSService(client, nil, log),
		export:   NewExportService(client, repo, renderer, sink, workers.NewDebouncer("autocompile", 20*time.Millisecond, log), "", log),
		admin:    NewAdminService(client, repo, log),
		renderer: renderer,
		outDir:   outDir,
	}
	t.Cleanup(e.resume.Close)
	return e
}
