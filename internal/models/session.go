package models

// Keys of the persisted client state. They match what the web client kept in
// browser storage so exported state stays recognizable.
const (
	KeyAuthToken        = "authToken"
	KeyUserName         = "userName"
	KeyUserEmail        = "userEmail"
	KeyUserRole         = "userRole"
	KeyGeneratedResume  = "generatedResume"
	KeySelectedTemplate = "selectedTemplate"
)

// SessionKeys lists every persisted key; logout clears all of them.
var SessionKeys = []string{
	KeyAuthToken,
	KeyUserName,
	KeyUserEmail,
	KeyUserRole,
	KeyGeneratedResume,
	KeySelectedTemplate,
}

// ResumeSchemaVersion is the version written by StoredResume.
const ResumeSchemaVersion = 2

// StoredResume is the persisted envelope for the generated resume. Values without
// a version predate the envelope and are migrated on read.
type StoredResume struct {
	Version int    `json:"version"`
	Resume  Resume `json:"resume"`
}

// Session is the explicit client state passed to services.
type Session struct {
	AuthToken        string   `json:"authToken,omitempty"`
	UserName         string   `json:"userName,omitempty"`
	UserEmail        string   `json:"userEmail,omitempty"`
	UserRole         UserRole `json:"userRole,omitempty"`
	SelectedTemplate string   `json:"selectedTemplate,omitempty"`
	GeneratedResume  *Resume  `json:"generatedResume,omitempty"`
	// ResumeErr is set when a stored resume exists but could not be read.
	// GeneratedResume is nil then.
	ResumeErr error `json:"-"`
}

func (s Session) Authenticated() bool { return s.AuthToken != "" }

func (s Session) IsAdmin() bool { return s.Authenticated() && s.UserRole == RoleAdmin }

// CurrentUser is the view of the signed-in user. A zero value with
// Authenticated=false is the unauthenticated view.
type CurrentUser struct {
	Authenticated bool     `json:"authenticated"`
	Name          string   `json:"name,omitempty"`
	Email         string   `json:"email,omitempty"`
	Role          UserRole `json:"role,omitempty"`
}

func (s Session) CurrentUser() CurrentUser {
	if !s.Authenticated() {
		return CurrentUser{}
	}
	role := s.UserRole
	if role == "" {
		role = RoleUser
	}
	return CurrentUser{Authenticated: true, Name: s.UserName, Email: s.UserEmail, Role: role}
}
