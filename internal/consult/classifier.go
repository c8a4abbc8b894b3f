package consult

import (
	"regexp"
	"strconv"
	"strings"
)

// Profile is the classifier's full read of a business from one message.
type Profile struct {
	Category           Category `json:"category"`
	Subcategory        string   `json:"subcategory"`
	Industry           string   `json:"industry"`
	BusinessModel      string   `json:"business_model"`
	TargetMarket       string   `json:"target_market"`
	SizeIndicator      string   `json:"size_indicator"`
	Confidence         float64  `json:"confidence"`
	KeywordsMatched    []string `json:"keywords_matched"`
	ProblemPatterns    []string `json:"problem_patterns"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

// Classifier scores free-text messages against the static pattern table.
// Safe for concurrent use; the table is never mutated after construction.
type Classifier struct {
	table *PatternTable
}

// NewClassifier builds a classifier over the default pattern table.
func NewClassifier() *Classifier {
	return &Classifier{table: DefaultPatternTable()}
}

var headcountRe = regexp.MustCompile(`\b(\d+)\s*(?:employees?|people|team members?)\b`)

type signals struct {
	keywords  []string
	model     string
	industry  string
	size      string
	problems  []string
	techStack []string
}

// Identify classifies a single message. The returned profile always carries
// the raw confidence of the best-scoring category, even when that score falls
// under the acceptance floor and the category is reported as unknown.
func (c *Classifier) Identify(message string) Profile {
	lower := strings.ToLower(message)

	sig := signals{
		keywords:  c.extractKeywords(lower),
		model:     c.identifyModel(lower),
		industry:  c.identifyIndustry(lower),
		size:      c.identifySize(lower),
		problems:  c.identifyProblems(lower),
		techStack: c.extractTechStack(lower),
	}

	best := CategoryUnknown
	bestScore := -1.0
	for _, cat := range Categories {
		score := c.categoryScore(cat, sig, lower)
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	confidence := bestScore
	if confidence < 0.25 {
		best = CategoryUnknown
	}

	return Profile{
		Category:           best,
		Subcategory:        c.subcategory(best, lower),
		Industry:           sig.industry,
		BusinessModel:      sig.model,
		TargetMarket:       targetMarket(lower),
		SizeIndicator:      sig.size,
		Confidence:         confidence,
		KeywordsMatched:    sig.keywords,
		ProblemPatterns:    sig.problems,
		SuggestedQuestions: c.questions(best, sig),
	}
}

func (c *Classifier) extractKeywords(message string) []string {
	var matched []string
	for _, cat := range Categories {
		for _, kw := range c.table.Patterns[cat].Keywords {
			if strings.Contains(message, kw) {
				matched = append(matched, kw)
			}
		}
	}
	return matched
}

func (c *Classifier) identifyModel(message string) string {
	for _, m := range c.table.Models {
		if containsAny(message, m.Keywords) {
			return m.Name
		}
	}
	return "unknown"
}

func (c *Classifier) identifyIndustry(message string) string {
	for _, ind := range c.table.Industries {
		if containsAny(message, ind.Keywords) {
			return ind.Name
		}
	}
	return "general"
}

func (c *Classifier) identifySize(message string) string {
	for _, s := range c.table.Sizes {
		if containsAny(message, s.Keywords) {
			return s.Name
		}
	}
	if m := headcountRe.FindStringSubmatch(message); m != nil {
		count, _ := strconv.Atoi(m[1])
		switch {
		case count <= 1:
			return "solo"
		case count <= 10:
			return "small"
		case count <= 50:
			return "medium"
		default:
			return "large"
		}
	}
	return "unknown"
}

func (c *Classifier) identifyProblems(message string) []string {
	var problems []string
	for _, p := range c.table.ProblemTags {
		if containsAny(message, p.Keywords) {
			problems = append(problems, p.Tag)
		}
	}
	return problems
}

func (c *Classifier) extractTechStack(message string) []string {
	var stack []string
	for _, tech := range c.table.TechKeywords {
		if strings.Contains(message, tech) {
			stack = append(stack, tech)
		}
	}
	return stack
}

// categoryScore blends keyword, phrase, problem and model signals into a
// confidence in [0, 1]. Sub-scores are individually capped so a pile of
// keyword hits cannot drown out the other signals.
func (c *Classifier) categoryScore(cat Category, sig signals, message string) float64 {
	pattern := c.table.Patterns[cat]
	score := 0.0

	if len(pattern.Keywords) > 0 {
		hits := 0.0
		for _, kw := range pattern.Keywords {
			if strings.Contains(message, kw) {
				hits += 1.0
			} else if containsAny(message, strings.Fields(kw)) {
				hits += 0.5
			}
		}
		score += min(hits/float64(len(pattern.Keywords))*0.4, 0.4)
	}

	if len(pattern.Phrases) > 0 {
		hits := 0
		for _, p := range pattern.Phrases {
			if strings.Contains(message, p) {
				hits++
			}
		}
		score += min(float64(hits)/float64(len(pattern.Phrases))*0.3, 0.3)
	}

	if len(pattern.Problems) > 0 {
		hits := 0
		for _, p := range pattern.Problems {
			if strings.Contains(message, p) {
				hits++
			}
		}
		score += min(float64(hits)/float64(len(pattern.Problems))*0.2, 0.2)
	}

	for _, m := range pattern.AlignedModels {
		if sig.model == m {
			score += 0.1
			break
		}
	}

	if strings.Contains(message, string(cat)) {
		score += 0.3
	}

	for _, indicator := range pattern.StrongIndicators {
		if strings.Contains(message, indicator) {
			score += 0.15
			break
		}
	}

	return min(score, 1.0)
}

func (c *Classifier) subcategory(cat Category, message string) string {
	for _, sub := range c.table.Subcategories[cat] {
		if containsAny(message, sub.Keywords) {
			return sub.Name
		}
	}
	return "general"
}

func (c *Classifier) questions(cat Category, sig signals) []string {
	base, ok := c.table.Questions[cat]
	if !ok {
		base = c.table.GenericQs
	}
	qs := make([]string, len(base))
	copy(qs, base)

	for _, p := range sig.problems {
		switch p {
		case "scaling_issues":
			qs = append(qs, "At what point does your current system start breaking down?")
		case "manual_operations":
			qs = append(qs, "How many hours per week go into these manual tasks?")
		}
	}

	if len(qs) > 4 {
		qs = qs[:4]
	}
	return qs
}

func targetMarket(message string) string {
	switch {
	case containsAny(message, []string{"b2b", "businesses", "companies", "enterprise"}):
		return "b2b"
	case containsAny(message, []string{"b2c", "consumers", "customers", "users"}):
		return "b2c"
	case containsAny(message, []string{"marketplace", "both", "sellers and buyers"}):
		return "b2b2c"
	}
	return "unknown"
}

func containsAny(message string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(message, n) {
			return true
		}
	}
	return false
}
