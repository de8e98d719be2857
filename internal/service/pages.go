package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"shespeaks/internal/aggregate"
	"shespeaks/internal/insight"
	"shespeaks/internal/model"
	"shespeaks/internal/table"
	"shespeaks/internal/textfreq"
)

// Page names, in navigation order
const (
	PageOverview     = "overview"
	PageWhoAreYou    = "who-are-you"
	PageRealTalk     = "real-talk"
	PageMoodCheck    = "mood-check"
	PageSayIt        = "say-it"
	PageQuickPicks   = "quick-picks"
	PagePartingWords = "parting-words"
)

var PageNames = []string{
	PageOverview, PageWhoAreYou, PageRealTalk, PageMoodCheck, PageSayIt, PageQuickPicks, PagePartingWords,
}

const (
	topCourses     = 10
	topWords       = 10
	maxQuotes      = 20
	minQuoteLen    = 6 // runes, after trimming
	clearWinnerPct = 30
	diverseOptions = 5
)

// PageBuilder renders page payloads from a table. Every method is a pure
// function of its input; an empty table produces the page's empty state.
type PageBuilder struct {
	engine *insight.Engine
}

func NewPageBuilder(engine *insight.Engine) *PageBuilder {
	if engine == nil {
		engine = insight.NewEngine(nil)
	}
	return &PageBuilder{engine: engine}
}

// Build dispatches by page name
func (b *PageBuilder) Build(name string, t *table.ResponseTable) (interface{}, bool) {
	switch name {
	case PageOverview:
		return b.Overview(t), true
	case PageWhoAreYou:
		return b.WhoAreYou(t), true
	case PageRealTalk:
		return b.RealTalk(t), true
	case PageMoodCheck:
		return b.MoodCheck(t), true
	case PageSayIt:
		return b.SayIt(t), true
	case PageQuickPicks:
		return b.QuickPicks(t), true
	case PagePartingWords:
		return b.PartingWords(t), true
	}
	return nil, false
}

func countsView(c aggregate.CategoricalResult, limit int) model.CountsView {
	entries := c.Counts.Ranked()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	return model.CountsView{Entries: entries, Total: c.TotalNonMissing}
}

func (b *PageBuilder) Overview(t *table.ResponseTable) model.OverviewPage {
	m := insight.Collect(t)
	page := model.OverviewPage{
		Empty:            t.IsEmpty(),
		TotalResponses:   m.TotalResponses,
		UniqueCourses:    m.Courses.Counts.Len(),
		UniqueYears:      m.Years.Counts.Len(),
		AvgSentiment:     m.Sentiment.Mean,
		SentimentHasData: m.Sentiment.HasData,
		JudgedPercentage: m.Judged.Percentage,
		JudgedHasData:    m.Judged.HasData,
		VolumeTier:       string(insight.VolumeTierFor(m.TotalResponses)),
		Insights:         insight.Overview(m),
	}
	if top, ok := m.Help.Counts.MostCommon(); ok {
		page.TopHelp = top.Key
	}
	if m.Sentiment.HasData {
		page.SentimentTier = string(insight.SentimentTierFor(m.Sentiment.Mean))
	}
	if m.Judged.HasData {
		page.JudgedTier = string(insight.JudgedTierFor(m.Judged.Percentage))
	}
	return page
}

func (b *PageBuilder) WhoAreYou(t *table.ResponseTable) model.WhoAreYouPage {
	return model.WhoAreYouPage{
		Empty:      t.IsEmpty(),
		Years:      countsView(aggregate.CategoricalCounts(t, insight.FieldYear), 0),
		TopCourses: countsView(aggregate.CategoricalCounts(t, insight.FieldCourse), topCourses),
		Judged:     countsView(aggregate.CategoricalCounts(t, insight.FieldJudged), 0),
	}
}

func isFinalYear(r model.Response) bool {
	s, ok := r.Field(insight.FieldYear).Str()
	return ok && s == insight.FinalYear
}

// RealTalk compares curfew answers of final-year students against everyone
// else, including rows that never answered the year question.
func (b *PageBuilder) RealTalk(t *table.ResponseTable) model.RealTalkPage {
	final := aggregate.CategoricalCounts(t.Filter(isFinalYear), insight.FieldCurfews)
	others := aggregate.CategoricalCounts(t.Filter(func(r model.Response) bool { return !isFinalYear(r) }), insight.FieldCurfews)

	return model.RealTalkPage{
		Empty:             t.IsEmpty(),
		Voice:             countsView(aggregate.CategoricalCounts(t, insight.FieldVoice), 0),
		SteppedBack:       countsView(aggregate.CategoricalCounts(t, insight.FieldSteppedBack), 0),
		Curfews:           countsView(aggregate.CategoricalCounts(t, insight.FieldCurfews), 0),
		HasCorrelation:    t.HasColumn(insight.FieldYear) && final.TotalNonMissing+others.TotalNonMissing > 0,
		FinalYearCurfews:  countsView(final, 0),
		OtherYearsCurfews: countsView(others, 0),
	}
}

func (b *PageBuilder) MoodCheck(t *table.ResponseTable) model.MoodCheckPage {
	scores, overall := insight.MoodScores(t)
	page := model.MoodCheckPage{
		Empty:            t.IsEmpty(),
		Scores:           scores,
		OverallSentiment: overall.Mean,
		HasData:          overall.HasData,
	}
	if overall.HasData {
		page.SentimentTier = string(insight.SentimentTierFor(overall.Mean))
	}
	return page
}

// meaningful trims texts and keeps those longer than five runes
func meaningful(texts []string) []string {
	out := []string{}
	for _, s := range texts {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) >= minQuoteLen {
			out = append(out, s)
		}
	}
	return out
}

func (b *PageBuilder) SayIt(t *table.ResponseTable) model.SayItPage {
	reporting := aggregate.ScalarTexts(t, insight.FieldHeldBackReport)
	change := aggregate.ScalarTexts(t, insight.FieldOneChange)

	quotes := meaningful(reporting)
	quoteCount := len(quotes)
	if len(quotes) > maxQuotes {
		quotes = quotes[:maxQuotes]
	}

	words := textfreq.Analyze(change)
	top := textfreq.TopN(words, topWords)
	if top == nil {
		top = []model.Entry{}
	}

	recs := b.engine.BarrierRecommendations(reporting)
	recs = append(recs, b.engine.ThemeRecommendations(change, t.Len())...)

	return model.SayItPage{
		Empty:              t.IsEmpty(),
		TotalResponses:     t.Len(),
		Quotes:             quotes,
		QuoteCount:         quoteCount,
		ReportingResponses: len(reporting),
		ChangeResponses:    len(change),
		TopWords:           top,
		Themes:             textfreq.ClassifyThemes(words, textfreq.ChangeThemes),
		Recommendations:    recs,
		UrgencyCounts:      model.UrgencyCounts(recs),
		Summary:            insight.SayItSummary(t.Len(), len(reporting), len(change)),
	}
}

func helpOption(key string, count, rows int) model.HelpOption {
	return model.HelpOption{
		Key:        key,
		Label:      insight.HelpLabel(key),
		Count:      count,
		Percentage: aggregate.Percentage(count, rows),
	}
}

// topHelpByVoice finds the most requested help option per voice answer,
// ordered by voice. Groups whose rows selected nothing are left out.
func topHelpByVoice(t *table.ResponseTable) []model.VoiceHelp {
	groups := map[string]*model.FrequencyCounter{}
	for _, r := range t.Rows() {
		voice := r.Field(insight.FieldVoice)
		if voice.IsMissing() {
			continue
		}
		key := voice.Text()
		c, ok := groups[key]
		if !ok {
			c = model.NewFrequencyCounter()
			groups[key] = c
		}
		for _, opt := range aggregate.Options(r.Field(insight.FieldHelp)) {
			c.Add(opt, 1)
		}
	}

	voices := make([]string, 0, len(groups))
	for v := range groups {
		voices = append(voices, v)
	}
	sort.Strings(voices)

	out := []model.VoiceHelp{}
	for _, v := range voices {
		top, ok := groups[v].Table().MostCommon()
		if !ok {
			continue
		}
		out = append(out, model.VoiceHelp{
			Voice:        v,
			VoiceLabel:   insight.VoiceLabel(v),
			TopHelp:      top.Key,
			TopHelpLabel: insight.HelpLabel(top.Key),
			Count:        top.Count,
		})
	}
	return out
}

func (b *PageBuilder) QuickPicks(t *table.ResponseTable) model.QuickPicksPage {
	help := aggregate.MultiselectCounts(t, insight.FieldHelp)
	rows := help.TotalRowsConsidered

	ranking := []model.HelpOption{}
	for _, e := range help.Counts.Ranked() {
		ranking = append(ranking, helpOption(e.Key, e.Count, rows))
	}
	options := make([]model.HelpOption, 0, len(insight.HelpOptions))
	for _, o := range insight.HelpOptions {
		options = append(options, helpOption(o.Key, help.Counts.Count(o.Key), rows))
	}

	recs := b.engine.HelpRecommendations(help)
	return model.QuickPicksPage{
		Empty:           t.IsEmpty(),
		TotalResponses:  t.Len(),
		RowsConsidered:  rows,
		Ranking:         ranking,
		Options:         options,
		ByVoice:         topHelpByVoice(t),
		HasClearWinner:  len(ranking) > 0 && ranking[0].Percentage > clearWinnerPct,
		DiverseNeeds:    len(ranking) > diverseOptions,
		Insights:        insight.HelpPatterns(help),
		Recommendations: recs,
		UrgencyCounts:   model.UrgencyCounts(recs),
	}
}

// PartingWords keeps advice longer than five runes, dropping case-insensitive
// repeats in favour of the first spelling.
func (b *PageBuilder) PartingWords(t *table.ResponseTable) model.PartingWordsPage {
	advice := aggregate.ScalarTexts(t, insight.FieldAdvice)
	seen := make(map[string]struct{})
	messages := []string{}
	for _, msg := range meaningful(advice) {
		norm := strings.ToLower(msg)
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		messages = append(messages, msg)
	}
	return model.PartingWordsPage{
		Empty:         t.IsEmpty(),
		Messages:      messages,
		TotalMessages: len(advice),
	}
}
