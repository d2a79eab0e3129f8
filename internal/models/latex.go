package models

type LatexGenerateRequest struct {
	ResumeData   Resume `json:"resumeData"`
	TemplateType string `json:"templateType"`
}

type LatexDocument struct {
	LatexCode    string `json:"latexCode"`
	TemplateType string `json:"templateType,omitempty"`
}

type LatexCompileRequest struct {
	LatexCode string `json:"latexCode"`
}

type GenerateRequest struct {
	UserResumeDescription string `json:"userResumeDescription"`
	TemplateType          string `json:"templateType,omitempty"`
}

// Artifact is an exported file.
type Artifact struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url,omitempty"`
	Size        int    `json:"size"`
	Pages       int    `json:"pages,omitempty"`
	Data        []byte `json:"-"`
}
