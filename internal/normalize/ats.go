package normalize

import (
	"errors"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/ats"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
)

var atsKeys = []string{"atsScore", "overallScore", "score", "scoreBreakdown", "breakdown", "suggestions", "detailedSuggestions"}

func looksLikeATS(m map[string]any) bool {
	for _, k := range atsKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

var suggestionText = []string{"suggestion", "text", "description", "title", "message"}

// ATS decodes a scoring response. Scores become 0-100 integers or nil, the label
// and tag color follow the score, and keyword coverage is derived from the
// matched and missing keyword lists.
func ATS(raw []byte) (models.ATSResult, error) {
	v, err := Value(raw)
	if err != nil {
		return models.NewATSResult(), err
	}
	root, ok := v.(map[string]any)
	if !ok {
		return models.NewATSResult(), &DecodeError{Stage: StageShape, Err: errors.New("ats result is not an object")}
	}
	think := str(root, "think")

	payload, err := unwrap(root, looksLikeATS)
	if err != nil {
		return models.NewATSResult(), err
	}

	res := models.NewATSResult()
	res.Think = think
	res.Score = ats.Percent(pick(payload, "atsScore", "overallScore", "score"))
	if res.Score != nil {
		res.Label = ats.Label(*res.Score)
		res.TagColor = ats.TagColor(*res.Score)
	}

	if bd := obj(payload, "scoreBreakdown", "breakdown"); bd != nil {
		res.Breakdown = models.ScoreBreakdown{
			KeywordMatch:        ats.Percent(pick(bd, "keywordMatch", "keywordMatchScore", "keywords")),
			Formatting:          ats.Percent(pick(bd, "formatting", "formattingScore", "format")),
			SectionCompleteness: ats.Percent(pick(bd, "sectionCompleteness", "sectionCompletenessScore", "sections")),
		}
	}

	res.Strengths = textList(pick(payload, "strengths"), suggestionText...)
	res.Weaknesses = textList(pick(payload, "weaknesses", "improvements"), suggestionText...)
	res.Suggestions = textList(pick(payload, "detailedSuggestions", "suggestions", "recommendations"), suggestionText...)
	res.Keywords = []string(models.ToStringList(pick(payload, "keywords", "matchedKeywords", "foundKeywords")))
	res.MissingKeywords = []string(models.ToStringList(pick(payload, "missingKeywords")))
	res.KeywordCoverage = ats.KeywordCoverage(len(res.Keywords), len(res.MissingKeywords))
	res.Feedback = str(payload, "feedback", "overallFeedback")

	return res, nil
}
