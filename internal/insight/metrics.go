package insight

import (
	"shespeaks/internal/aggregate"
	"shespeaks/internal/model"
	"shespeaks/internal/table"
)

// Metrics are the aggregator outputs the narrative rules read
type Metrics struct {
	TotalResponses int
	Sentiment      aggregate.MeanResult // mean of the mood-question means that have data
	Scores         []model.ScaleScore
	Courses        aggregate.CategoricalResult
	Years          aggregate.CategoricalResult
	Judged         aggregate.ShareResult
	Voice          aggregate.CategoricalResult
	Help           aggregate.MultiselectResult
	RecentActivity int // responses on the last three days that saw any
	SteppedBack    aggregate.CategoricalResult
	Curfews        aggregate.CategoricalResult
}

// Collect runs every aggregation the overview needs
func Collect(t *table.ResponseTable) Metrics {
	scores, sentiment := MoodScores(t)
	return Metrics{
		TotalResponses: t.Len(),
		Sentiment:      sentiment,
		Scores:         scores,
		Courses:        aggregate.CategoricalCounts(t, FieldCourse),
		Years:          aggregate.CategoricalCounts(t, FieldYear),
		Judged:         aggregate.MatchShare(t, FieldJudged, JudgedMatches...),
		Voice:          aggregate.CategoricalCounts(t, FieldVoice),
		Help:           aggregate.MultiselectCounts(t, FieldHelp),
		RecentActivity: recentActivity(aggregate.DailyCounts(t), 3),
		SteppedBack:    aggregate.CategoricalCounts(t, FieldSteppedBack),
		Curfews:        aggregate.CategoricalCounts(t, FieldCurfews),
	}
}

// MoodScores returns each mood question's mean and the overall sentiment,
// which averages only the questions that have data.
func MoodScores(t *table.ResponseTable) ([]model.ScaleScore, aggregate.MeanResult) {
	scores := make([]model.ScaleScore, 0, len(MoodQuestions))
	sum := 0.0
	n := 0
	for _, q := range MoodQuestions {
		m := aggregate.ScaleMean(t, q.Key)
		scores = append(scores, model.ScaleScore{
			Key:     q.Key,
			Label:   q.Label,
			Mean:    m.Mean,
			Count:   m.Count,
			HasData: m.HasData,
		})
		if m.HasData {
			sum += m.Mean
			n++
		}
	}
	if n == 0 {
		return scores, aggregate.MeanResult{}
	}
	return scores, aggregate.MeanResult{Mean: sum / float64(n), Count: n, HasData: true}
}

func recentActivity(days []aggregate.DayCount, last int) int {
	if len(days) > last {
		days = days[len(days)-last:]
	}
	total := 0
	for _, d := range days {
		total += d.Count
	}
	return total
}
