package resumeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

// GenerateResume posts the description and returns the raw response. The body's
// shape varies, so decoding is left to the normalizer.
func (c *Client) GenerateResume(ctx context.Context, in models.GenerateRequest) ([]byte, error) {
	const op = "resumeapi.GenerateResume"

	body, err := jsonBody(in)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "encode request", err)
	}
	return c.send(ctx, op, request{
		method:      http.MethodPost,
		path:        "/api/resume/generate",
		body:        body,
		contentType: "application/json",
	})
}

// ATSScore uploads a resume file in the multipart field "file" and returns the raw
// scoring response.
func (c *Client) ATSScore(ctx context.Context, fileName, contentType string, r io.Reader) ([]byte, error) {
	const op = "resumeapi.ATSScore"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(fileName)+`"`)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "build upload", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "read file", err)
	}
	if err := mw.Close(); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "build upload", err)
	}

	return c.send(ctx, op, request{
		method:      http.MethodPost,
		path:        "/api/resume/ats-score",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// Me returns the user behind the stored token.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	return c.me(ctx, "")
}

// MeWithToken returns the user behind token, used right after the OAuth callback
// before the token is stored.
func (c *Client) MeWithToken(ctx context.Context, token string) (models.User, error) {
	return c.me(ctx, token)
}

func (c *Client) me(ctx context.Context, token string) (models.User, error) {
	const op = "resumeapi.Me"

	var u models.User
	if err := c.sendJSON(ctx, op, request{method: http.MethodGet, path: "/api/user/me", token: token}, &u); err != nil {
		return models.User{}, err
	}
	u.Role = models.ParseRole(string(u.Role))
	return u, nil
}

// ListUsers returns every user. A bare array is expected; {users|data|content: [...]}
// is tolerated.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "resumeapi.ListUsers"

	var raw json.RawMessage
	if err := c.sendJSON(ctx, op, request{method: http.MethodGet, path: "/api/admin/users"}, &raw); err != nil {
		return nil, err
	}

	var users []models.User
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, utils.E(utils.CodeDecode, op, "unexpected user list", err)
		}
		for _, k := range []string{"users", "data", "content"} {
			if v, ok := env[k]; ok {
				trimmed = v
				break
			}
		}
	}
	if err := json.Unmarshal(trimmed, &users); err != nil {
		return nil, utils.E(utils.CodeDecode, op, "unexpected user list", err)
	}
	for i := range users {
		users[i].Role = models.ParseRole(string(users[i].Role))
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (c *Client) GrantAdmin(ctx context.Context, id string) error {
	return c.adminAction(ctx, "resumeapi.GrantAdmin", http.MethodPut, "/api/admin/grant-admin/", id)
}

func (c *Client) RevokeAdmin(ctx context.Context, id string) error {
	return c.adminAction(ctx, "resumeapi.RevokeAdmin", http.MethodPut, "/api/admin/revoke-admin/", id)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.adminAction(ctx, "resumeapi.DeleteUser", http.MethodDelete, "/api/admin/delete-user/", id)
}

func (c *Client) adminAction(ctx context.Context, op, method, prefix, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user id is required", nil)
	}
	_, err := c.send(ctx, op, request{method: method, path: prefix + url.PathEscape(id)})
	return err
}

// LatexGenerate asks the backend to render the resume as LaTeX source.
func (c *Client) LatexGenerate(ctx context.Context, in models.LatexGenerateRequest) (models.LatexDocument, error) {
	const op = "resumeapi.LatexGenerate"

	body, err := jsonBody(in)
	if err != nil {
		return models.LatexDocument{}, utils.E(utils.CodeInternal, op, "encode request", err)
	}
	var doc models.LatexDocument
	if err := c.sendJSON(ctx, op, request{
		method:      http.MethodPost,
		path:        "/api/latex/generate",
		body:        body,
		contentType: "application/json",
	}, &doc); err != nil {
		return models.LatexDocument{}, err
	}
	if strings.TrimSpace(doc.LatexCode) == "" {
		return models.LatexDocument{}, utils.E(utils.CodeDecode, op, "backend returned no LaTeX code", nil)
	}
	if doc.TemplateType == "" {
		doc.TemplateType = in.TemplateType
	}
	return doc, nil
}

// LatexCompile returns the PDF compiled from code.
func (c *Client) LatexCompile(ctx context.Context, code string) ([]byte, error) {
	const op = "resumeapi.LatexCompile"

	if strings.TrimSpace(code) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "LaTeX code is required", nil)
	}
	body, err := jsonBody(models.LatexCompileRequest{LatexCode: code})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "encode request", err)
	}
	pdf, err := c.send(ctx, op, request{
		method:      http.MethodPost,
		path:        "/api/latex/compile",
		body:        body,
		contentType: "application/json",
		accept:      "application/pdf",
	})
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		return nil, utils.E(utils.CodeDecode, op, "compile did not return a PDF", nil)
	}
	return pdf, nil
}

// LatexTemplates returns template id -> description from {"templates": {...}}.
func (c *Client) LatexTemplates(ctx context.Context) (map[string]string, error) {
	const op = "resumeapi.LatexTemplates"

	var out struct {
		Templates map[string]string `json:"templates"`
	}
	if err := c.sendJSON(ctx, op, request{method: http.MethodGet, path: "/api/latex/templates"}, &out); err != nil {
		return nil, err
	}
	if out.Templates == nil {
		out.Templates = map[string]string{}
	}
	return out.Templates, nil
}

// Health returns the LaTeX service status document.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	const op = "resumeapi.Health"

	out := map[string]any{}
	if err := c.sendJSON(ctx, op, request{method: http.MethodGet, path: "/api/latex/health"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
