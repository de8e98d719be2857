package insight

import (
	"fmt"
	"strings"

	"shespeaks/internal/aggregate"
	"shespeaks/internal/model"
)

var volumeText = map[VolumeTier]string{
	VolumeThriving:  "🔥 The community is absolutely thriving with over 100 voices heard!",
	VolumeMomentum:  "✨ Making waves with 50+ amazing responses!",
	VolumeBuilding:  "🌟 Building momentum with growing community engagement!",
	VolumeBeginning: "💫 Every voice matters - the journey has begun!",
}

var sentimentText = map[SentimentTier]string{
	SentimentPositive:     "😊 The community is feeling positive and supported!",
	SentimentNeutral:      "📈 There's room for growth and improvement!",
	SentimentNeedsSupport: "💪 Time to build stronger support systems!",
}

var judgedText = map[JudgedTier]string{
	JudgedHigh:     "⚠️ High judgment rates detected - urgent need for allyship and support!",
	JudgedModerate: "🤔 Moderate judgment experiences - work needed on creating safer spaces!",
	JudgedLow:      "💪 Low judgment rates - great progress in building inclusive environments!",
}

func insight(rule, tier, text string) model.Insight {
	return model.Insight{Rule: rule, Tier: tier, Text: text}
}

// share is the percentage of a categorical column's non-missing rows holding value
func share(c aggregate.CategoricalResult, value string) float64 {
	return aggregate.Percentage(c.Counts.Count(value), c.TotalNonMissing)
}

// Overview returns the overview page narrative in rule order.
// Rules whose metric has no data are skipped; an empty table yields nothing.
func Overview(m Metrics) []model.Insight {
	out := []model.Insight{}
	if m.TotalResponses == 0 {
		return out
	}

	vt := VolumeTierFor(m.TotalResponses)
	out = append(out, insight("volume", string(vt), volumeText[vt]))

	if m.Sentiment.HasData {
		st := SentimentTierFor(m.Sentiment.Mean)
		out = append(out, insight("sentiment", string(st), sentimentText[st]))
	}

	if m.Courses.TotalNonMissing > 0 {
		switch n := m.Courses.Counts.Len(); {
		case n > 10:
			out = append(out, insight("courses", "wide", "📚 Amazing diversity across 10+ different courses!"))
		case n > 5:
			out = append(out, insight("courses", "multiple", "🎓 Great representation from multiple disciplines!"))
		default:
			out = append(out, insight("courses", "few", "🌟 Building representation across different fields!"))
		}
	}

	if top, ok := m.Years.Counts.MostCommon(); ok {
		out = append(out, insight("year", top.Key, fmt.Sprintf("🎓 %s students are leading the charge!", top.Key)))
	}

	if m.Judged.HasData {
		jt := JudgedTierFor(m.Judged.Percentage)
		out = append(out, insight("judged", string(jt), judgedText[jt]))
	}

	if m.Voice.TotalNonMissing > 0 {
		switch {
		case share(m.Voice, "comfortable") > 50:
			out = append(out, insight("voice", "comfortable", "🎙️ Most students feel comfortable speaking up - positive group dynamics!"))
		case share(m.Voice, "uncomfortable") > 30:
			out = append(out, insight("voice", "uncomfortable", "🤐 Many students feel uncomfortable speaking up - need safer spaces!"))
		}
	}

	if top, ok := m.Help.Counts.MostCommon(); ok {
		lower := strings.ToLower(top.Key)
		switch {
		case strings.Contains(lower, "mentor"):
			out = append(out, insight("help", "mentorship", "👩‍🏫 Mentorship is the top priority - women want role models and guidance!"))
		case strings.Contains(lower, "support"):
			out = append(out, insight("help", "support", "🤝 Support systems are key - community and allyship matter most!"))
		case strings.Contains(lower, "opportunity"):
			out = append(out, insight("help", "opportunity", "🚀 Opportunities are in demand - women want chances to grow and excel!"))
		}
	}

	switch {
	case m.RecentActivity > 10:
		out = append(out, insight("activity", "high", "📈 High recent engagement - community is actively participating and growing!"))
	case m.RecentActivity > 5:
		out = append(out, insight("activity", "steady", "📊 Steady participation - consistent engagement shows sustained interest!"))
	}

	if m.SteppedBack.TotalNonMissing > 0 {
		switch {
		case share(m.SteppedBack, "yes") > 30:
			out = append(out, insight("stepped-back", "many", "🚶‍♀️ Many women have stepped back from opportunities - need to address barriers!"))
		case share(m.SteppedBack, "no") > 70:
			out = append(out, insight("stepped-back", "engaged", "💪 Most women are staying engaged - great resilience and determination!"))
		}
	}

	if m.Curfews.TotalNonMissing > 0 {
		switch {
		case share(m.Curfews, "yes") > 40:
			out = append(out, insight("curfews", "impacting", "🕒 Curfews are significantly impacting participation - need flexible solutions!"))
		case share(m.Curfews, "no") > 60:
			out = append(out, insight("curfews", "minor", "✅ Curfews aren't a major barrier - other factors may be more important!"))
		}
	}

	return out
}

// HelpPatterns reads the help-option shares (over answering rows) for the quick-picks page
func HelpPatterns(help aggregate.MultiselectResult) []model.Insight {
	out := []model.Insight{}
	rows := help.TotalRowsConsidered
	if rows == 0 {
		return out
	}
	pct := func(opt string) float64 { return aggregate.Percentage(help.Counts.Count(opt), rows) }

	avg := float64(help.Counts.Total()) / float64(rows)
	switch {
	case avg > 1.5:
		out = append(out, insight("selections", "multiple", "📊 Multiple Pain Points: Students selected multiple options, indicating systemic issues across different areas"))
	case avg < 1.0:
		out = append(out, insight("selections", "focused", "📊 Focused Concerns: Students have specific, targeted concerns rather than broad systemic issues"))
	}

	switch p := pct(OptWomenMentors); {
	case p > 40:
		out = append(out, insight(OptWomenMentors, "crisis", "👩‍🏫 Role Model Crisis: Over 40% want women mentors, suggesting a severe lack of visible female leadership"))
	case p > 20:
		out = append(out, insight(OptWomenMentors, "gap", "👩‍🏫 Role Model Gap: Significant demand for women mentors indicates limited female representation in tech leadership"))
	}

	switch p := pct(OptLateNight); {
	case p > 30:
		out = append(out, insight(OptLateNight, "inequality", "🌙 Access Inequality: High demand for late-night access suggests curfew policies are significantly limiting tech participation"))
	case p > 15:
		out = append(out, insight(OptLateNight, "constraints", "🌙 Time Constraints: Students need more flexible access to fully participate in tech activities"))
	}

	switch p := pct(OptAllGirlsTeams); {
	case p > 25:
		out = append(out, insight(OptAllGirlsTeams, "safe-space", "👭 Safe Space Need: High preference for all-girls teams suggests students feel uncomfortable in mixed-gender tech environments"))
	case p > 10:
		out = append(out, insight(OptAllGirlsTeams, "comfort", "👭 Comfort Preferences: Some students prefer women-only spaces for tech activities"))
	}

	switch p := pct(OptAnonReporting); {
	case p > 20:
		out = append(out, insight(OptAnonReporting, "safety", "🔒 Safety Concerns: High demand for anonymous reporting suggests students fear retaliation or judgment"))
	case p > 10:
		out = append(out, insight(OptAnonReporting, "barriers", "🔒 Reporting Barriers: Students need safer ways to report issues without fear of consequences"))
	}

	if pct(OptTransparentSel) > 15 {
		out = append(out, insight(OptTransparentSel, "trust", "📋 Trust Issues: Demand for transparent selections indicates current processes lack clarity and fairness"))
	}

	safety := help.Counts.Count(OptAnonReporting) + help.Counts.Count(OptAllGirlsTeams)
	support := help.Counts.Count(OptWomenMentors) + help.Counts.Count(OptTransparentSel)
	access := help.Counts.Count(OptLateNight)
	switch {
	case safety > support+access:
		out = append(out, insight("culture", "safety-first", "🚨 Safety-First Culture: Students prioritize safety and comfort over support and access"))
	case support > safety+access:
		out = append(out, insight("culture", "support-seeking", "🤝 Support-Seeking Culture: Students are looking for guidance and mentorship over safety concerns"))
	case access > safety+support:
		out = append(out, insight("culture", "access-constrained", "⏰ Access-Constrained Culture: Students are primarily limited by time and access restrictions"))
	}

	return out
}

// SayItSummary compares how many students shared reporting barriers and change ideas
func SayItSummary(totalResponses, reporting, change int) []model.Insight {
	out := []model.Insight{}
	if totalResponses == 0 {
		return out
	}

	if reporting > 0 {
		switch rate := aggregate.Percentage(reporting, totalResponses); {
		case rate > 70:
			out = append(out, insight("reporting-rate", "high", "📊 High Engagement: Most students have experienced situations they wanted to report"))
		case rate > 40:
			out = append(out, insight("reporting-rate", "moderate", "📊 Moderate Concerns: Significant portion of students have faced reportable situations"))
		default:
			out = append(out, insight("reporting-rate", "selective", "📊 Selective Sharing: Students are selective about what they choose to share"))
		}
	}

	if change > 0 {
		switch rate := aggregate.Percentage(change, totalResponses); {
		case rate > 80:
			out = append(out, insight("change-rate", "high", "💡 High Improvement Drive: Students have clear ideas for improving the tech environment"))
		case rate > 50:
			out = append(out, insight("change-rate", "constructive", "💡 Constructive Feedback: Students are actively thinking about positive changes"))
		}
	}

	switch {
	case reporting > change:
		out = append(out, insight("focus", "problem", "🎯 Problem-Focused: Students are more focused on barriers than solutions"))
	case change > reporting:
		out = append(out, insight("focus", "solution", "🎯 Solution-Oriented: Students are more focused on improvements than problems"))
	}

	if aggregate.Percentage(reporting, totalResponses) > 60 {
		out = append(out, insight("systemic", "systemic", "🚨 Systemic Issues: High reporting barriers suggest systemic problems in the environment"))
	} else {
		out = append(out, insight("systemic", "manageable", "✅ Manageable Issues: Reporting barriers are present but not overwhelming"))
	}

	return out
}
