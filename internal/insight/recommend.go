package insight

import (
	"shespeaks/internal/aggregate"
	"shespeaks/internal/model"
	"shespeaks/internal/textfreq"
)

// Engine renders recommendations from a catalogue
type Engine struct {
	cat Catalogue
}

// NewEngine creates an engine; a nil catalogue falls back to the built-in one
func NewEngine(cat Catalogue) *Engine {
	if cat == nil {
		cat = DefaultCatalogue()
	}
	return &Engine{cat: cat}
}

type themeRule struct {
	rule       string
	theme      textfreq.Theme
	thresholds Thresholds
}

// themeRules are evaluated in this order
var themeRules = []themeRule{
	{RuleCulture, textfreq.Culture, Thresholds{High: 20, Medium: 10}},
	{RuleSupport, textfreq.Support, Thresholds{High: 20, Medium: 10}},
	{RulePolicy, textfreq.Policy, Thresholds{High: 15, Medium: 8}},
	{RuleEducation, textfreq.Education, Thresholds{High: 20, Medium: 10}},
}

// ThemeRecommendations classifies each change theme by the percentage of all
// responses whose text mentions it. Themes nobody mentions are skipped.
func (e *Engine) ThemeRecommendations(texts []string, totalResponses int) []model.Recommendation {
	recs := []model.Recommendation{}
	if totalResponses == 0 {
		return recs
	}
	for _, r := range themeRules {
		mentions := textfreq.ThemeMentions(texts, r.theme)
		if mentions == 0 {
			continue
		}
		ratio := aggregate.Percentage(mentions, totalResponses)
		recs = append(recs, e.cat.Render(r.rule, r.thresholds.Classify(ratio), ratio))
	}
	return recs
}

type barrierRule struct {
	rule   string
	theme  textfreq.Theme
	cutoff Cutoff
}

var barrierRules = []barrierRule{
	{RuleBarrierFear, textfreq.Fear, 30},
	{RuleBarrierSafety, textfreq.Safety, 20},
	{RuleBarrierConfidence, textfreq.Confidence, 25},
	{RuleBarrierSupport, textfreq.Support, 20},
}

// BarrierRecommendations weighs each barrier theme by its share of every word
// written in the reporting-barrier answers.
func (e *Engine) BarrierRecommendations(texts []string) []model.Recommendation {
	recs := []model.Recommendation{}
	freq := textfreq.CountAll(texts)
	total := freq.Total()
	if total == 0 {
		return recs
	}
	for _, r := range barrierRules {
		count := textfreq.ClassifyThemes(freq, []textfreq.Theme{r.theme})[0].Count
		if count == 0 {
			continue
		}
		pct := aggregate.Percentage(count, total)
		recs = append(recs, e.cat.Render(r.rule, r.cutoff.Classify(pct), pct))
	}
	return recs
}

type helpRule struct {
	option string
	cutoff Cutoff
}

var helpRules = []helpRule{
	{OptWomenMentors, 30},
	{OptLateNight, 25},
	{OptAllGirlsTeams, 20},
	{OptAnonReporting, 15},
	{OptTransparentSel, 15},
}

// HelpRecommendations turns help-option shares into recommendations. With no
// selections at all a single low-urgency "more data" record is returned.
func (e *Engine) HelpRecommendations(help aggregate.MultiselectResult) []model.Recommendation {
	recs := []model.Recommendation{}
	for _, r := range helpRules {
		count := help.Counts.Count(r.option)
		if count == 0 {
			continue
		}
		pct := aggregate.Percentage(count, help.TotalRowsConsidered)
		recs = append(recs, e.cat.Render(RuleHelpPrefix+r.option, r.cutoff.Classify(pct), pct))
	}
	if len(recs) == 0 {
		recs = append(recs, e.cat.Render(RuleMoreData, model.UrgencyLow, 0))
	}
	return recs
}
