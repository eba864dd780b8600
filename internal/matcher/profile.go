package matcher

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultScoreFloor is the minimum reported match score for job descriptions
	// that yield at least one keyword. Set Profile.ScoreFloor to 0 to disable it.
	DefaultScoreFloor = 65
	// DefaultMaxMissingKeywords caps the missing keyword list.
	DefaultMaxMissingKeywords = 8
)

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid matcher profile")

var defaultStopWords = []string{
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"a", "an", "is", "are", "was", "were", "be", "been", "have", "has", "had",
	"do", "does", "did", "will", "would", "should", "could", "can", "may", "might", "must",
}

var defaultATSSuggestions = []string{
	"Use standard section headers: Experience, Education, Skills",
	"Avoid tables and graphics in resume",
	"Include keywords from job description naturally",
	"Use bullet points for accomplishments",
	"Save as PDF to preserve formatting",
}

var defaultImprovementTips = []string{
	"Add quantifiable achievements (e.g., 'Improved performance by 30%')",
	"Include missing technical skills mentioned in job description",
	"Use action verbs to start bullet points (Built, Developed, Implemented)",
	"Tailor your summary to match job requirements",
	"Ensure your contact information is prominently displayed",
}

// Profile is the configuration data a Matcher is built from.
type Profile struct {
	StopWords          []string
	ScoreFloor         int
	MaxMissingKeywords int
	ATSSuggestions     []string
	ImprovementTips    []string
}

// DefaultProfile returns the reference stop words, floor, limit and advisory text.
func DefaultProfile() Profile {
	return Profile{
		StopWords:          append([]string(nil), defaultStopWords...),
		ScoreFloor:         DefaultScoreFloor,
		MaxMissingKeywords: DefaultMaxMissingKeywords,
		ATSSuggestions:     append([]string(nil), defaultATSSuggestions...),
		ImprovementTips:    append([]string(nil), defaultImprovementTips...),
	}
}

// Validate checks the profile bounds.
func (p Profile) Validate() error {
	if p.ScoreFloor < 0 || p.ScoreFloor > 100 {
		return fmt.Errorf("%w: score_floor %d out of range [0,100]", ErrInvalidProfile, p.ScoreFloor)
	}
	if p.MaxMissingKeywords < 1 {
		return fmt.Errorf("%w: max_missing_keywords must be at least 1", ErrInvalidProfile)
	}
	if len(trimAll(p.ATSSuggestions)) == 0 {
		return fmt.Errorf("%w: ats_suggestions must not be empty", ErrInvalidProfile)
	}
	if len(trimAll(p.ImprovementTips)) == 0 {
		return fmt.Errorf("%w: improvement_tips must not be empty", ErrInvalidProfile)
	}
	return nil
}

// rawProfile mirrors the YAML layout; nil fields keep their defaults.
type rawProfile struct {
	StopWords          []string `yaml:"stop_words"`
	ScoreFloor         *int     `yaml:"score_floor"`
	MaxMissingKeywords *int     `yaml:"max_missing_keywords"`
	ATSSuggestions     []string `yaml:"ats_suggestions"`
	ImprovementTips    []string `yaml:"improvement_tips"`
}

// LoadProfile reads a YAML profile from path and overlays it on DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile parses YAML profile bytes and overlays them on DefaultProfile.
func ParseProfile(data []byte) (Profile, error) {
	var raw rawProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("%w: parse yaml: %v", ErrInvalidProfile, err)
	}

	p := DefaultProfile()
	if raw.StopWords != nil {
		p.StopWords = normalizeStopWords(raw.StopWords)
	}
	if raw.ScoreFloor != nil {
		p.ScoreFloor = *raw.ScoreFloor
	}
	if raw.MaxMissingKeywords != nil {
		p.MaxMissingKeywords = *raw.MaxMissingKeywords
	}
	if raw.ATSSuggestions != nil {
		p.ATSSuggestions = trimAll(raw.ATSSuggestions)
	}
	if raw.ImprovementTips != nil {
		p.ImprovementTips = trimAll(raw.ImprovementTips)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func normalizeStopWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
