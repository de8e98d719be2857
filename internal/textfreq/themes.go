package textfreq

import "shespeaks/internal/model"

// Theme names
const (
	ThemeCulture    = "culture"
	ThemeSupport    = "support"
	ThemePolicy     = "policy"
	ThemeEducation  = "education"
	ThemeFear       = "fear"
	ThemeSafety     = "safety"
	ThemeConfidence = "confidence"
)

// Theme is a named fixed word set
type Theme struct {
	Name  string
	words map[string]struct{}
}

// NewTheme builds a theme from its member words
func NewTheme(name string, words ...string) Theme {
	return Theme{Name: name, words: newSet(words...)}
}

func (t Theme) Contains(word string) bool {
	_, ok := t.words[word]
	return ok
}

// Size returns the number of member words
func (t Theme) Size() int { return len(t.words) }

var (
	Culture    = NewTheme(ThemeCulture, "culture", "environment", "atmosphere", "community", "inclusive", "respect", "bias")
	Support    = NewTheme(ThemeSupport, "support", "help", "mentorship", "mentor", "guidance", "resources", "ally", "procedure", "evidence", "proof")
	Policy     = NewTheme(ThemePolicy, "policy", "rules", "regulations", "curfew", "restriction", "transparent", "selections")
	Education  = NewTheme(ThemeEducation, "education", "training", "workshop", "course", "learning", "session", "bootcamp")
	Fear       = NewTheme(ThemeFear, "fear", "afraid", "scared", "worried", "anxiety", "nervous", "backlash", "blamed", "judged")
	Safety     = NewTheme(ThemeSafety, "safe", "safety", "isolation", "trouble", "career", "opportunities")
	Confidence = NewTheme(ThemeConfidence, "confidence", "confident", "doubt", "unsure", "minor", "normal")
)

// Themes is the canonical theme table in reporting order
var Themes = []Theme{Culture, Support, Policy, Education, Fear, Safety, Confidence}

// ChangeThemes are the themes reported for "one thing you'd change" answers
var ChangeThemes = []Theme{Culture, Support, Policy, Education}

// BarrierThemes are the themes reported for reporting-barrier answers
var BarrierThemes = []Theme{Fear, Safety, Confidence, Support}

// ClassifyThemes sums, per theme, the counts of tokens in its word set.
// A token in several sets counts toward each. Every theme is reported, zero included.
func ClassifyThemes(freq *model.FrequencyTable, themes []Theme) []model.ThemeCount {
	out := make([]model.ThemeCount, len(themes))
	entries := freq.Entries()
	for i, th := range themes {
		out[i].Theme = th.Name
		for _, e := range entries {
			if th.Contains(e.Key) {
				out[i].Count += e.Count
			}
		}
	}
	return out
}

// ThemeMentions counts the texts that contain at least one word of theme
func ThemeMentions(texts []string, theme Theme) int {
	n := 0
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			if theme.Contains(tok) {
				n++
				break
			}
		}
	}
	return n
}
