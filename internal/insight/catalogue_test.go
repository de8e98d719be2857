package insight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shespeaks/internal/model"
)

func TestDefaultCatalogue_Complete(t *testing.T) {
	cat := DefaultCatalogue()
	for rule, urgencies := range required {
		for _, u := range urgencies {
			entry, ok := cat[rule][u]
			require.True(t, ok, "%s/%s", rule, u)
			assert.NotEmpty(t, entry.Title)
			assert.NotEmpty(t, entry.Icon)
			assert.Equal(t, u, entry.UrgencyTier)
		}
	}
}

func TestDefaultCatalogue_MergedTiers(t *testing.T) {
	cat := DefaultCatalogue()
	for _, u := range []model.Urgency{model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow} {
		assert.Equal(t, "Culture & Inclusion", cat[RuleCulture][u].Title)
	}
	assert.Equal(t, "🔥 CRITICAL", cat[RulePolicy][model.UrgencyHigh].PriorityTier)
	assert.Equal(t, "💡 Important", cat[RulePolicy][model.UrgencyMedium].PriorityTier)
	assert.Equal(t, "➡️ Next Step", cat[RulePolicy][model.UrgencyLow].PriorityTier)
}

func TestCatalogueRender(t *testing.T) {
	cat := DefaultCatalogue()

	rec := cat.Render(RuleCulture, model.UrgencyMedium, 12.345)
	assert.Equal(t, "Culture-related asks appear in ~12.3% of responses.", rec.Description)
	assert.Equal(t, model.UrgencyMedium, rec.Urgency)
	assert.Equal(t, "🌍", rec.Icon)

	fallback := cat.Render(RuleMoreData, model.UrgencyLow, 0)
	assert.Equal(t, "More Data Needed", fallback.Title)
	assert.NotContains(t, fallback.Description, "%!")
}

func TestParseCatalogue_Errors(t *testing.T) {
	_, err := ParseCatalogue(strings.NewReader("culture: {urgent: {title: x}}"))
	assert.ErrorContains(t, err, "unknown urgency")

	_, err = ParseCatalogue(strings.NewReader("culture: {high: {title: x}}"))
	assert.ErrorContains(t, err, "missing")

	_, err = ParseCatalogue(strings.NewReader("culture: [unclosed"))
	assert.Error(t, err)
}

func TestLoadCatalogue_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.yaml")
	require.NoError(t, os.WriteFile(path, defaultCatalogueYAML, 0o600))

	cat, err := LoadCatalogue(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogue(), cat)

	_, err = LoadCatalogue(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
