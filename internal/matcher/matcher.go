// Package matcher scores a resume against a job description by keyword overlap.
package matcher

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minKeywordRunes = 3

// Source labels where a Document came from.
type Source string

const (
	SourceResume         Source = "resume"
	SourceJobDescription Source = "job_description"
)

// Document is a request-scoped text blob.
type Document struct {
	Source Source
	Text   string
}

// Result is the outcome of one analysis.
type Result struct {
	MatchScore      int      `json:"match_score"`
	MissingKeywords []string `json:"missing_keywords"`
	ATSSuggestions  []string `json:"ats_suggestions"`
	ImprovementTips []string `json:"improvement_tips"`
}

// Matcher holds an immutable Profile. It is safe for concurrent use.
type Matcher struct {
	stopWords       map[string]struct{}
	scoreFloor      int
	maxMissing      int
	atsSuggestions  []string
	improvementTips []string
}

// New builds a Matcher from p. Invalid bounds are clamped rather than rejected;
// call Profile.Validate first when the profile comes from user input.
func New(p Profile) *Matcher {
	stop := make(map[string]struct{}, len(p.StopWords))
	for _, w := range p.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	maxMissing := p.MaxMissingKeywords
	if maxMissing < 1 {
		maxMissing = DefaultMaxMissingKeywords
	}
	return &Matcher{
		stopWords:       stop,
		scoreFloor:      clampScore(p.ScoreFloor),
		maxMissing:      maxMissing,
		atsSuggestions:  append([]string(nil), p.ATSSuggestions...),
		improvementTips: append([]string(nil), p.ImprovementTips...),
	}
}

var defaultMatcher = New(DefaultProfile())

// Default returns the Matcher built from DefaultProfile.
func Default() *Matcher {
	return defaultMatcher
}

// ExtractKeywords extracts keywords using the default stop words.
func ExtractKeywords(text string) []string {
	return defaultMatcher.Extract(text)
}

// Analyze matches resume against job description using the default profile.
func Analyze(resumeText, jobDescriptionText string) Result {
	return defaultMatcher.Analyze(resumeText, jobDescriptionText)
}

// Extract returns the normalized keywords of text in first-occurrence order.
func (m *Matcher) Extract(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	tokens := strings.Fields(normalized)
	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minKeywordRunes {
			continue
		}
		if _, stop := m.stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// ExtractDocument extracts keywords from d.
func (m *Matcher) ExtractDocument(d Document) []string {
	return m.Extract(d.Text)
}

// Analyze compares the keyword sets of the resume and the job description.
func (m *Matcher) Analyze(resumeText, jobDescriptionText string) Result {
	return m.AnalyzeDocuments(
		Document{Source: SourceResume, Text: resumeText},
		Document{Source: SourceJobDescription, Text: jobDescriptionText},
	)
}

// AnalyzeDocuments is Analyze over labeled documents.
func (m *Matcher) AnalyzeDocuments(resume, job Document) Result {
	resumeKeywords := m.ExtractDocument(resume)
	jobKeywords := m.ExtractDocument(job)

	inResume := make(map[string]struct{}, len(resumeKeywords))
	for _, kw := range resumeKeywords {
		inResume[kw] = struct{}{}
	}

	missing := make([]string, 0, m.maxMissing)
	matched := 0
	for _, kw := range jobKeywords {
		if _, ok := inResume[kw]; ok {
			matched++
			continue
		}
		if len(missing) < m.maxMissing {
			missing = append(missing, kw)
		}
	}

	return Result{
		MatchScore:      m.score(matched, len(jobKeywords)),
		MissingKeywords: missing,
		ATSSuggestions:  append([]string(nil), m.atsSuggestions...),
		ImprovementTips: append([]string(nil), m.improvementTips...),
	}
}

// score is 0 when the job description has no keywords; otherwise the rounded
// match percentage raised to the configured floor.
func (m *Matcher) score(matched, total int) int {
	if total == 0 {
		return 0
	}
	raw := int(math.Floor(float64(matched)/float64(total)*100 + 0.5))
	if raw < m.scoreFloor {
		raw = m.scoreFloor
	}
	return clampScore(raw)
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
