package normalize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
)

const plainResume = `{
	"personalInformation": {"fullName": "Ada Lovelace", "email": "ada@example.com", "phoneNumber": "123", "location": "London"},
	"summary": "Engineer",
	"skills": [{"title": "Go", "level": "Expert"}, "Docker"],
	"experience": [{"jobTitle": "Dev", "company": "Acme", "duration": "2020-2024", "responsibility": ["Built things", "Fixed things"]}],
	"education": [{"degree": "BSc", "university": "UCL", "graduationYear": 2019}],
	"projects": [{"title": "Engine", "technologiesUsed": "Go, Redis"}],
	"certifications": ["CKA"],
	"achievements": [{"title": "Award", "year": 2022}],
	"languages": ["English", {"name": "French"}],
	"interests": "chess, music"
}`

func encodeString(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

func TestResumeDecodesPlainObject(t *testing.T) {
	r, err := Resume([]byte(plainResume))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", r.PersonalInformation.FullName)
	assert.Equal(t, "Engineer", r.Summary)
	assert.Equal(t, []models.Skill{{Title: "Go", Level: "Expert"}, {Title: "Docker"}}, r.Skills)
	require.Len(t, r.Experience, 1)
	assert.Equal(t, "Built things\nFixed things", r.Experience[0].Responsibility)
	assert.Equal(t, models.FlexString("2019"), r.Education[0].GraduationYear)
	assert.Equal(t, models.StringList{"Go", "Redis"}, r.Projects[0].TechnologiesUsed)
	assert.Equal(t, "CKA", r.Certifications[0].Title)
	assert.Equal(t, models.FlexString("2022"), r.Achievements[0].Year)
	assert.Equal(t, []models.NamedItem{{Name: "English"}, {Name: "French"}}, r.Languages)
	assert.Equal(t, []models.NamedItem{{Name: "chess"}, {Name: "music"}}, r.Interests)
}

func TestResumeDecodesStringLayers(t *testing.T) {
	once := encodeString(t, plainResume)
	twice := encodeString(t, once)

	for name, raw := range map[string]string{"single": once, "double": twice} {
		t.Run(name, func(t *testing.T) {
			r, err := Resume([]byte(raw))
			require.NoError(t, err)
			assert.Equal(t, "Ada Lovelace", r.PersonalInformation.FullName)
		})
	}
}

func TestResumeTooManyStringLayers(t *testing.T) {
	raw := plainResume
	for i := 0; i < 4; i++ {
		raw = encodeString(t, raw)
	}
	r, err := Resume([]byte(raw))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, StageString, de.Stage)
	assert.True(t, r.IsEmpty())
	assert.NotNil(t, r.Skills)
}

func TestResumeUnwrapsEnvelopes(t *testing.T) {
	tests := map[string]string{
		"think data":       `{"think": "reasoning", "data": ` + plainResume + `}`,
		"single key":       `{"resume": ` + plainResume + `}`,
		"nested string":    `{"data": ` + encodeString(t, plainResume) + `}`,
		"two levels":       `{"result": {"data": ` + plainResume + `}}`,
		"fenced":           encodeString(t, "```json\n"+plainResume+"\n```"),
		"personalInfo key": `{"personalInfo": {"name": "Ada Lovelace"}}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := Resume([]byte(raw))
			require.NoError(t, err)
			assert.Equal(t, "Ada Lovelace", r.PersonalInformation.FullName)
		})
	}
}

func TestResumeFieldVariants(t *testing.T) {
	raw := `{
		"personalInfo": {"name": "Grace", "phone": "555", "linkedin": "in/grace"},
		"professionalSummary": "Admiral",
		"skills": {"languages": ["COBOL"], "tools": "Compilers"},
		"workExperience": [{"title": "Officer", "organization": "Navy", "period": "1943-1986", "description": "Led"}],
		"education": [{"degree": "PhD", "institution": "Yale", "year": "1934"}],
		"projects": [{"name": "UNIVAC", "technologies": ["Assembly"], "url": "x"}]
	}`
	r, err := Resume([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "Grace", r.PersonalInformation.FullName)
	assert.Equal(t, "555", r.PersonalInformation.PhoneNumber)
	assert.Equal(t, "in/grace", r.PersonalInformation.LinkedIn)
	assert.Equal(t, "Admiral", r.Summary)
	assert.Equal(t, []models.Skill{{Title: "COBOL"}, {Title: "Compilers"}}, r.Skills)
	assert.Equal(t, models.Experience{JobTitle: "Officer", Company: "Navy", Duration: "1943-1986", Responsibility: "Led"}, r.Experience[0])
	assert.Equal(t, "Yale", r.Education[0].University)
	assert.Equal(t, models.FlexString("1934"), r.Education[0].GraduationYear)
	assert.Equal(t, "UNIVAC", r.Projects[0].Title)
	assert.Equal(t, "x", r.Projects[0].GithubLink)
}

func TestResumeFillsDefaults(t *testing.T) {
	r, err := Resume([]byte(`{"summary": "only this"}`))
	require.NoError(t, err)
	assert.Equal(t, "only this", r.Summary)
	assert.NotNil(t, r.Experience)
	assert.NotNil(t, r.Interests)
	assert.Empty(t, r.Experience)
}

func TestResumeRejectsErrorEnvelope(t *testing.T) {
	tests := map[string]string{
		"error message": `{"error": "Bad Request", "message": "Description too short"}`,
		"null data":     `{"think": "hmm", "data": null}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := Resume([]byte(raw))
			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, StageEnvelope, de.Stage)
			assert.True(t, r.IsEmpty())
		})
	}

	_, err := Resume([]byte(`{"error": "x", "message": "Description too short"}`))
	assert.Contains(t, err.Error(), "Description too short")
}

func TestResumeRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `42`, `not json at all`} {
		_, err := Resume([]byte(raw))
		var de *DecodeError
		require.True(t, errors.As(err, &de), raw)
	}
}

func TestResumeRoundTripsCanonicalForm(t *testing.T) {
	first, err := Resume([]byte(plainResume))
	require.NoError(t, err)

	b, err := json.Marshal(first)
	require.NoError(t, err)
	second, err := Resume(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestATSDecodesVariants(t *testing.T) {
	raw := `{
		"think": "analysis",
		"data": {
			"overallScore": "7/10",
			"breakdown": {"keywordMatchScore": 80, "formatting": "90%", "sectionCompleteness": "n/a"},
			"strengths": ["Clear, concise summary"],
			"detailedSuggestions": [{"suggestion": "Add metrics"}, "Use action verbs"],
			"keywords": "Go, Kubernetes, SQL",
			"missingKeywords": ["Terraform"],
			"feedback": "Solid"
		}
	}`
	res, err := ATS([]byte(raw))
	require.NoError(t, err)

	require.NotNil(t, res.Score)
	assert.Equal(t, 70, *res.Score)
	assert.Equal(t, "Good", res.Label)
	assert.Equal(t, "gold", res.TagColor)
	assert.Equal(t, 80, *res.Breakdown.KeywordMatch)
	assert.Equal(t, 90, *res.Breakdown.Formatting)
	assert.Nil(t, res.Breakdown.SectionCompleteness)
	assert.Equal(t, []string{"Clear, concise summary"}, res.Strengths)
	assert.Equal(t, []string{"Add metrics", "Use action verbs"}, res.Suggestions)
	assert.Equal(t, []string{"Go", "Kubernetes", "SQL"}, res.Keywords)
	require.NotNil(t, res.KeywordCoverage)
	assert.Equal(t, 75, *res.KeywordCoverage)
	assert.Equal(t, "analysis", res.Think)
	assert.Equal(t, "Solid", res.Feedback)
	assert.Empty(t, res.Weaknesses)
}

func TestATSWithoutScore(t *testing.T) {
	res, err := ATS([]byte(`{"atsScore": "pending", "suggestions": []}`))
	require.NoError(t, err)
	assert.Nil(t, res.Score)
	assert.Empty(t, res.Label)
	assert.Nil(t, res.KeywordCoverage)
}

func TestATSErrorEnvelope(t *testing.T) {
	res, err := ATS([]byte(`{"error": "Internal Server Error", "message": "parse failed"}`))
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, StageEnvelope, de.Stage)
	assert.Nil(t, res.Score)
	assert.NotNil(t, res.Suggestions)
}

func TestATSBreakdownNumbersArePercentages(t *testing.T) {
	res, err := ATS([]byte(`{"atsScore": 64, "breakdown": {"keywordMatch": 7, "formatting": "7/10", "sectionCompleteness": 80}}`))
	require.NoError(t, err)
	assert.Equal(t, 7, *res.Breakdown.KeywordMatch)
	assert.Equal(t, 70, *res.Breakdown.Formatting)
	assert.Equal(t, 80, *res.Breakdown.SectionCompleteness)
}
