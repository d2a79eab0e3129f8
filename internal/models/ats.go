package models

// ScoreBreakdown holds per-dimension scores on a 0-100 scale. Nil means the backend
// sent nothing usable for that dimension.
type ScoreBreakdown struct {
	KeywordMatch        *int `json:"keywordMatch"`
	Formatting          *int `json:"formatting"`
	SectionCompleteness *int `json:"sectionCompleteness"`
}

// ATSResult is the normalized answer of the scoring endpoint.
type ATSResult struct {
	Score           *int           `json:"score"`
	Label           string         `json:"label,omitempty"`
	TagColor        string         `json:"tagColor,omitempty"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Suggestions     []string       `json:"suggestions"`
	Keywords        []string       `json:"keywords"`
	MissingKeywords []string       `json:"missingKeywords"`
	KeywordCoverage *int           `json:"keywordCoverage"`
	Feedback        string         `json:"feedback,omitempty"`
	Think           string         `json:"think,omitempty"`
}

// NewATSResult returns a result with every list initialized and no scores.
func NewATSResult() ATSResult {
	return ATSResult{
		Strengths:       []string{},
		Weaknesses:      []string{},
		Suggestions:     []string{},
		Keywords:        []string{},
		MissingKeywords: []string{},
	}
}
