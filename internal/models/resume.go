package models

type PersonalInformation struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Location    string `json:"location"`
	LinkedIn    string `json:"linkedIn,omitempty"`
	GitHub      string `json:"gitHub,omitempty"`
	Portfolio   string `json:"portfolio,omitempty"`
}

type Skill struct {
	Title string `json:"title"`
	Level string `json:"level,omitempty"`
}

type Experience struct {
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	Location       string `json:"location,omitempty"`
	Duration       string `json:"duration"`
	Responsibility string `json:"responsibility"`
}

type Education struct {
	Degree         string     `json:"degree"`
	University     string     `json:"university"`
	Location       string     `json:"location,omitempty"`
	GraduationYear FlexString `json:"graduationYear"`
}

type Project struct {
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	TechnologiesUsed StringList `json:"technologiesUsed"`
	GithubLink       string     `json:"githubLink,omitempty"`
}

type Certification struct {
	Title               string     `json:"title"`
	IssuingOrganization string     `json:"issuingOrganization,omitempty"`
	Year                FlexString `json:"year,omitempty"`
}

type Achievement struct {
	Title string     `json:"title"`
	Year  FlexString `json:"year,omitempty"`
}

// NamedItem is a language or an interest.
type NamedItem struct {
	Name string `json:"name"`
}

// Resume is the canonical resume document. Lists are ordered as the candidate
// entered them.
type Resume struct {
	PersonalInformation PersonalInformation `json:"personalInformation"`
	Summary             string              `json:"summary"`
	Skills              []Skill             `json:"skills"`
	Experience          []Experience        `json:"experience"`
	Education           []Education         `json:"education"`
	Projects            []Project           `json:"projects"`
	Certifications      []Certification     `json:"certifications"`
	Achievements        []Achievement       `json:"achievements"`
	Languages           []NamedItem         `json:"languages"`
	Interests           []NamedItem         `json:"interests"`
	ExtraInformation    string              `json:"extraInformation,omitempty"`
}

// NewResume returns an empty resume with every list initialized.
func NewResume() Resume {
	var r Resume
	r.EnsureDefaults()
	return r
}

// EnsureDefaults replaces nil lists with empty ones so the document always encodes
// every field.
func (r *Resume) EnsureDefaults() {
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		if r.Projects[i].TechnologiesUsed == nil {
			r.Projects[i].TechnologiesUsed = StringList{}
		}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	if r.Achievements == nil {
		r.Achievements = []Achievement{}
	}
	if r.Languages == nil {
		r.Languages = []NamedItem{}
	}
	if r.Interests == nil {
		r.Interests = []NamedItem{}
	}
}

// IsEmpty reports whether nothing was filled in.
func (r Resume) IsEmpty() bool {
	return r.PersonalInformation == (PersonalInformation{}) &&
		r.Summary == "" &&
		len(r.Skills) == 0 &&
		len(r.Experience) == 0 &&
		len(r.Education) == 0 &&
		len(r.Projects) == 0 &&
		len(r.Certifications) == 0 &&
		len(r.Achievements) == 0 &&
		len(r.Languages) == 0 &&
		len(r.Interests) == 0 &&
		r.ExtraInformation == ""
}
