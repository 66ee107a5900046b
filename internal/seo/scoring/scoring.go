// Package scoring computes the 0-100 content-quality score for an entity's
// SEO metadata. The engine is pure and entity-scoped: site-wide aggregation
// happens in a separate reporting query and never feeds back into this score.
package scoring

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/listora/listora-backend/internal/domain/seo"
)

// Input is one candidate metadata record plus the entity context the title
// is checked against.
type Input struct {
	Title        string
	Descriptions [3]string
	Keywords     string

	EntityName string
	City       string
}

// Signals carries the externally measured completeness fractions (0..1).
// Structural covers schema/address completeness, Media covers photo
// metadata; both are derived by the caller from persisted entity state.
type Signals struct {
	Structural float64
	Media      float64
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Score is deterministic and always within [0,100].
func (e *Engine) Score(in Input, sig Signals) int {
	total := e.titleScore(in) + e.descriptionScore(in) + e.keywordScore(in.Keywords) + e.completenessScore(sig)
	score := int(math.Round(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// titleScore grants up to TitleWeight points: a length sub-credit for hitting
// the target window and fixed credits for containing the entity name, the
// city and the brand token. An empty title scores zero outright.
func (e *Engine) titleScore(in Input) float64 {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return 0
	}

	tokenCredit := float64(e.cfg.TitleWeight) * 0.2 // 3 tokens + length share
	lengthCredit := float64(e.cfg.TitleWeight) - 3*tokenCredit

	score := lengthCredit * windowCredit(utf8.RuneCountInString(title), e.cfg.TitleMinLen, e.cfg.TitleMaxLen, e.cfg.TitleMinLen)

	lower := strings.ToLower(title)
	for _, token := range []string{in.EntityName, in.City, e.cfg.BrandToken} {
		token = strings.TrimSpace(token)
		if token != "" && strings.Contains(lower, strings.ToLower(token)) {
			score += tokenCredit
		}
	}
	return score
}

// descriptionScore checks each variant against the target window and
// averages the three: a variant inside [DescMinLen,DescMaxLen] earns full
// per-variant credit, anything outside earns zero, never negative.
func (e *Engine) descriptionScore(in Input) float64 {
	var sum float64
	for _, d := range in.Descriptions {
		sum += e.VariantCredit(d)
	}
	return float64(e.cfg.DescriptionWeight) * sum / float64(len(in.Descriptions))
}

// VariantCredit is the per-variant description credit in [0,1], exposed so
// variant selection ranks A/B/C by the same rule the aggregate score uses.
func (e *Engine) VariantCredit(description string) float64 {
	n := utf8.RuneCountInString(strings.TrimSpace(description))
	if n >= e.cfg.DescMinLen && n <= e.cfg.DescMaxLen {
		return 1
	}
	return 0
}

// keywordScore counts comma-separated tokens: full credit within
// [KeywordMin,KeywordMax], outside the window the credit degrades with the
// distance from the nearest bound.
func (e *Engine) keywordScore(keywords string) float64 {
	count := CountKeywords(keywords)
	return float64(e.cfg.KeywordWeight) * windowCredit(count, e.cfg.KeywordMin, e.cfg.KeywordMax, e.cfg.KeywordMin)
}

func (e *Engine) completenessScore(sig Signals) float64 {
	return float64(e.cfg.StructuralWeight)*clamp01(sig.Structural) +
		float64(e.cfg.MediaWeight)*clamp01(sig.Media)
}

// BestVariant ranks the three description variants by their window credit.
// Ties keep the earliest variant, so untouched records stay on A.
func (e *Engine) BestVariant(in Input) seo.Variant {
	variants := [3]seo.Variant{seo.VariantA, seo.VariantB, seo.VariantC}
	best := 0
	bestCredit := e.VariantCredit(in.Descriptions[0])
	for i := 1; i < len(in.Descriptions); i++ {
		if c := e.VariantCredit(in.Descriptions[i]); c > bestCredit {
			best, bestCredit = i, c
		}
	}
	return variants[best]
}

// CountKeywords counts non-empty comma-separated tokens.
func CountKeywords(keywords string) int {
	count := 0
	for _, part := range strings.Split(keywords, ",") {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}

// windowCredit is 1 inside [min,max] and degrades linearly with the distance
// from the nearest bound, hitting zero at `scale` away.
func windowCredit(value, min, max, scale int) float64 {
	if value >= min && value <= max {
		return 1
	}
	var dist int
	if value < min {
		dist = min - value
	} else {
		dist = value - max
	}
	credit := 1 - float64(dist)/float64(scale)
	if credit < 0 {
		return 0
	}
	return credit
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
