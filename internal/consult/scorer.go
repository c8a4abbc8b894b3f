package consult

import "strings"

// CategoryScore is one row of a progress breakdown.
type CategoryScore struct {
	Score      float64 `json:"score"`
	Max        float64 `json:"max"`
	Percentage float64 `json:"percentage"`
}

// ProgressResult reports the completeness score for one turn.
type ProgressResult struct {
	Progress              int                      `json:"progress"`
	RawCalculated         int                      `json:"raw_calculated"`
	CategoryBreakdown     map[string]CategoryScore `json:"category_breakdown"`
	Smoothed              bool                     `json:"smoothed"`
	ComprehensiveDetected bool                     `json:"comprehensive_detected"`
	PatternsFound         []string                 `json:"patterns_found,omitempty"`
}

// Scorer turns an accumulated fact map into a 0-100 completeness score.
// Stateless; the caller supplies the previous turn's progress.
type Scorer struct {
	schema []InformationCategory
}

// NewScorer builds a scorer over the built-in information schema.
func NewScorer() *Scorer {
	return &Scorer{schema: InformationSchema}
}

// Score computes the quality-weighted progress for facts, smoothed against
// lastProgress. A comprehensive-information fast path can short-circuit the
// weighted pass entirely and is never smoothed.
func (s *Scorer) Score(facts Facts, lastProgress int) ProgressResult {
	if lastProgress < 0 {
		lastProgress = 0
	}
	if lastProgress > 100 {
		lastProgress = 100
	}

	if comp := detectComprehensive(facts); comp.Score >= 80 {
		return ProgressResult{
			Progress:              comp.Score,
			RawCalculated:         comp.Score,
			CategoryBreakdown:     map[string]CategoryScore{},
			ComprehensiveDetected: true,
			PatternsFound:         comp.Patterns,
		}
	}

	total := 0.0
	breakdown := make(map[string]CategoryScore, len(s.schema))
	for _, cat := range s.schema {
		catScore := 0.0
		catMax := cat.Weight * 100
		for field, rule := range cat.Fields {
			if v, ok := facts[field]; ok {
				catScore += scoreField(v, rule)
			}
		}
		catScore = min(catScore, catMax)
		pct := 0.0
		if catMax > 0 {
			pct = catScore / catMax * 100
		}
		breakdown[cat.Name] = CategoryScore{Score: catScore, Max: catMax, Percentage: pct}
		total += catScore
	}

	raw := int(min(total, 100))

	maxJump := 15
	if raw > 70 {
		maxJump = 25
	}
	progress := raw
	if lastProgress > 0 {
		progress = min(raw, lastProgress+maxJump)
	}

	return ProgressResult{
		Progress:          progress,
		RawCalculated:     raw,
		CategoryBreakdown: breakdown,
		Smoothed:          progress != raw,
	}
}

// scoreField walks the quality ladder for a single value. The first matching
// check decides the score.
func scoreField(v Value, rule FieldRule) float64 {
	if v.IsZero() {
		return 0
	}
	text := strings.ToLower(v.Text())

	if len(rule.AntiVagueTerms) > 0 && containsAny(text, rule.AntiVagueTerms) {
		return rule.Points * 0.2
	}
	if rule.MinLength > 0 && len(v.Text()) < rule.MinLength {
		return rule.Points * 0.3
	}
	if rule.RequiresNumbers && !containsDigit(text) {
		return rule.Points * 0.2
	}
	if rule.ListPreferred && v.Kind == KindList {
		if len(v.List) >= rule.MinItems {
			return rule.Points
		}
		return rule.Points * 0.5
	}
	if rule.QualityBonus {
		return rule.Points * min(float64(len(v.Text()))/20, 2.0)
	}
	return rule.Points
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

type comprehensiveResult struct {
	Score    int
	Patterns []string
}

var (
	comprehensiveBusiness = []string{"law firm", "solo practice", "attorney", "legal", "lawyer"}
	comprehensiveProblem  = []string{"contract", "generate", "transcript", "meeting", "document"}
	comprehensiveProcess  = []string{"takes a week", "zoom", "recording", "current process"}
	comprehensiveVolume   = []string{"30", "month", "contracts", "clients"}
	comprehensiveLocation = []string{"texas", "state", "templates"}
	comprehensiveReady    = []string{"yes", "begin", "start", "lets do it", "make it"}
)

// detectComprehensive looks for dense, field-name-independent signal in the
// raw text of everything extracted so far. Block values are fixed; the result
// is capped at 100.
func detectComprehensive(facts Facts) comprehensiveResult {
	text := facts.JoinedText()

	score := 0
	var found []string

	if containsAny(text, comprehensiveBusiness) {
		score += 20
		found = append(found, "business_type")
	}
	if countMatches(text, comprehensiveProblem) >= 3 {
		score += 25
		found = append(found, "specific_problem")
	}
	if containsAny(text, comprehensiveProcess) {
		score += 20
		found = append(found, "current_process")
	}
	if countMatches(text, comprehensiveVolume) >= 2 {
		score += 15
		found = append(found, "volume_metrics")
	}
	if containsAny(text, comprehensiveLocation) {
		score += 10
		found = append(found, "location")
	}
	if containsAny(text, comprehensiveReady) {
		score += 10
		found = append(found, "user_ready")
	}

	return comprehensiveResult{Score: min(score, 100), Patterns: found}
}

func countMatches(text string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			n++
		}
	}
	return n
}
