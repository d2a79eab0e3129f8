package normalize

import (
	"errors"
	"sort"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
)

var resumeKeys = []string{"personalInformation", "personalInfo", "summary", "skills", "experience"}

func looksLikeResume(m map[string]any) bool {
	for _, k := range resumeKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// Resume decodes a generation response or a stored legacy value into a Resume.
// On error the returned Resume is empty but fully initialized.
func Resume(raw []byte) (models.Resume, error) {
	v, err := Value(raw)
	if err != nil {
		return models.NewResume(), err
	}
	return ResumeValue(v)
}

// ResumeValue is Resume for an already decoded JSON value.
func ResumeValue(v any) (models.Resume, error) {
	v, err := peel(v)
	if err != nil {
		return models.NewResume(), err
	}
	root, ok := v.(map[string]any)
	if !ok {
		return models.NewResume(), &DecodeError{Stage: StageShape, Err: errors.New("resume is not an object")}
	}
	root, err = unwrap(root, looksLikeResume)
	if err != nil {
		return models.NewResume(), err
	}
	return mapResume(root), nil
}

func mapResume(root map[string]any) models.Resume {
	r := models.NewResume()

	pi := obj(root, "personalInformation", "personalInfo", "personal_information", "contact")
	if pi == nil {
		pi = root
	}
	r.PersonalInformation = models.PersonalInformation{
		FullName:    str(pi, "fullName", "name", "full_name"),
		Email:       str(pi, "email"),
		PhoneNumber: str(pi, "phoneNumber", "phone", "phone_number"),
		Location:    str(pi, "location", "address"),
		LinkedIn:    str(pi, "linkedIn", "linkedin", "linkedinUrl"),
		GitHub:      str(pi, "gitHub", "github", "githubUrl"),
		Portfolio:   str(pi, "portfolio", "website"),
	}

	r.Summary = str(root, "summary", "professionalSummary", "objective")
	r.ExtraInformation = str(root, "extraInformation", "additionalInformation")

	r.Skills = mapSkills(pick(root, "skills", "technicalSkills"))

	for _, it := range items(root, "experience", "workExperience", "experiences") {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		r.Experience = append(r.Experience, models.Experience{
			JobTitle:       str(m, "jobTitle", "title", "position", "role"),
			Company:        str(m, "company", "organization", "employer"),
			Location:       str(m, "location"),
			Duration:       str(m, "duration", "period", "dates"),
			Responsibility: str(m, "responsibility", "responsibilities", "description"),
		})
	}

	for _, it := range items(root, "education") {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		r.Education = append(r.Education, models.Education{
			Degree:         str(m, "degree"),
			University:     str(m, "university", "institution", "school", "college"),
			Location:       str(m, "location"),
			GraduationYear: models.FlexString(str(m, "graduationYear", "year", "graduationDate")),
		})
	}

	for _, it := range items(root, "projects") {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		r.Projects = append(r.Projects, models.Project{
			Title:            str(m, "title", "name"),
			Description:      str(m, "description"),
			TechnologiesUsed: models.ToStringList(pick(m, "technologiesUsed", "technologies", "techStack")),
			GithubLink:       str(m, "githubLink", "github", "link", "url"),
		})
	}

	for _, it := range items(root, "certifications") {
		if m, ok := it.(map[string]any); ok {
			r.Certifications = append(r.Certifications, models.Certification{
				Title:               str(m, "title", "name"),
				IssuingOrganization: str(m, "issuingOrganization", "organization", "issuer"),
				Year:                models.FlexString(str(m, "year", "date")),
			})
			continue
		}
		if s := text(it); s != "" {
			r.Certifications = append(r.Certifications, models.Certification{Title: s})
		}
	}

	for _, it := range items(root, "achievements") {
		if m, ok := it.(map[string]any); ok {
			r.Achievements = append(r.Achievements, models.Achievement{
				Title: str(m, "title", "name", "description"),
				Year:  models.FlexString(str(m, "year", "date")),
			})
			continue
		}
		if s := text(it); s != "" {
			r.Achievements = append(r.Achievements, models.Achievement{Title: s})
		}
	}

	r.Languages = namedItems(items(root, "languages"))
	r.Interests = namedItems(items(root, "interests", "hobbies"))

	r.EnsureDefaults()
	return r
}

// mapSkills accepts a list of strings or {title, level} objects, a comma-separated
// string, or an object of category -> skills which is flattened.
func mapSkills(v any) []models.Skill {
	out := []models.Skill{}
	add := func(it any) {
		if m, ok := it.(map[string]any); ok {
			if title := str(m, "title", "name", "skill"); title != "" {
				out = append(out, models.Skill{Title: title, Level: str(m, "level", "proficiency")})
			}
			return
		}
		for _, s := range models.ToStringList(it) {
			out = append(out, models.Skill{Title: s})
		}
	}

	switch t := v.(type) {
	case nil:
	case []any:
		for _, it := range t {
			add(it)
		}
	case map[string]any:
		if _, single := t["title"]; single {
			add(t)
			break
		}
		categories := make([]string, 0, len(t))
		for k := range t {
			categories = append(categories, k)
		}
		sort.Strings(categories)
		for _, c := range categories {
			switch group := t[c].(type) {
			case []any:
				for _, it := range group {
					add(it)
				}
			default:
				add(group)
			}
		}
	default:
		add(t)
	}
	return out
}

func namedItems(list []any) []models.NamedItem {
	out := []models.NamedItem{}
	for _, it := range list {
		if s := text(it, "name", "title", "language"); s != "" {
			out = append(out, models.NamedItem{Name: s})
		}
	}
	return out
}
