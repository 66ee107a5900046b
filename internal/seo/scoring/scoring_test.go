package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listora/listora-backend/internal/domain/seo"
)

// 50 runes, contains name, city and the default brand token.
const fullCreditTitle = "Anna Novakova | uklid Praha 5 | Listora katalog..."

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	return NewEngine(cfg)
}

func inWindowDescription() string {
	// 155 runes, inside the [150,160] window.
	return strings.Repeat("d", 155)
}

func keywordList(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "kw"
	}
	return strings.Join(parts, ", ")
}

func TestScoreIsDeterministicAndBounded(t *testing.T) {
	e := testEngine(t)
	in := Input{
		Title:        fullCreditTitle,
		Descriptions: [3]string{inWindowDescription(), "", strings.Repeat("x", 500)},
		Keywords:     keywordList(13),
		EntityName:   "Anna",
		City:         "Praha",
	}
	sig := Signals{Structural: 0.5, Media: 1.0}

	first := e.Score(in, sig)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Score(in, sig))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.LessOrEqual(t, first, 100)

	// Out-of-range signals clamp rather than escaping the scale.
	assert.LessOrEqual(t, e.Score(in, Signals{Structural: 99, Media: 99}), 100)
	assert.GreaterOrEqual(t, e.Score(in, Signals{Structural: -5, Media: -5}), 0)
}

func TestTitleFullCreditNeedsAllThreeTokens(t *testing.T) {
	e := testEngine(t)

	full := Input{Title: fullCreditTitle, EntityName: "Anna", City: "Praha"}
	require.Equal(t, 50, len([]rune(fullCreditTitle)))
	assert.InDelta(t, 25.0, e.titleScore(full), 0.001)

	// Same title but the entity's city no longer matches: strictly less.
	missingCity := Input{Title: fullCreditTitle, EntityName: "Anna", City: "Ostrava"}
	assert.Less(t, e.titleScore(missingCity), e.titleScore(full))
	assert.InDelta(t, 20.0, e.titleScore(missingCity), 0.001)

	// Empty title scores zero regardless of context.
	assert.Zero(t, e.titleScore(Input{Title: "   ", EntityName: "Anna", City: "Praha"}))

	// Out-of-window length degrades but substrings still count.
	longTitle := fullCreditTitle + strings.Repeat("!", 30)
	assert.Less(t, e.titleScore(Input{Title: longTitle, EntityName: "Anna", City: "Praha"}), 25.0)
}

func TestDescriptionWindow(t *testing.T) {
	e := testEngine(t)

	assert.InDelta(t, 1.0, e.VariantCredit(inWindowDescription()), 0.001)
	assert.Zero(t, e.VariantCredit(strings.Repeat("d", 149)))
	assert.Zero(t, e.VariantCredit(strings.Repeat("d", 161)))
	assert.Zero(t, e.VariantCredit(""))

	all := Input{Descriptions: [3]string{inWindowDescription(), inWindowDescription(), inWindowDescription()}}
	assert.InDelta(t, 25.0, e.descriptionScore(all), 0.001)

	one := Input{Descriptions: [3]string{inWindowDescription(), "", ""}}
	assert.InDelta(t, 25.0/3, e.descriptionScore(one), 0.001)
}

func TestKeywordCredit(t *testing.T) {
	e := testEngine(t)

	thirteen := e.keywordScore(keywordList(13))
	assert.InDelta(t, 20.0, thirteen, 0.001)

	five := e.keywordScore(keywordList(5))
	assert.Less(t, five, thirteen)
	assert.Greater(t, five, 0.0)

	assert.Zero(t, e.keywordScore(""))
	assert.Zero(t, e.keywordScore(" , , "))

	// Counting ignores empty tokens and whitespace.
	assert.Equal(t, 3, CountKeywords("a, b,,c, "))
}

func TestBestVariantPrefersWindowAndEarlierTies(t *testing.T) {
	e := testEngine(t)

	in := Input{Descriptions: [3]string{"short", inWindowDescription(), "also short"}}
	assert.Equal(t, seo.VariantB, e.BestVariant(in))

	// All out of window ties back to A.
	tied := Input{Descriptions: [3]string{"a", "b", "c"}}
	assert.Equal(t, seo.VariantA, e.BestVariant(tied))

	// A and C both in window: the earlier variant wins.
	both := Input{Descriptions: [3]string{inWindowDescription(), "x", inWindowDescription()}}
	assert.Equal(t, seo.VariantA, e.BestVariant(both))
}

func TestLoadConfigRejectsBadWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TitleWeight = 80
	assert.Error(t, cfg.Validate())
}
