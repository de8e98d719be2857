package model

// Urgency is the tier assigned to a recommendation
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// CatalogueEntry is a static recommendation template
type CatalogueEntry struct {
	Icon                string  `json:"icon" yaml:"icon"`
	PriorityTier        string  `json:"priorityTier" yaml:"priorityTier"` // display label, e.g. "🔥 CRITICAL"
	Title               string  `json:"title" yaml:"title"`
	ActionText          string  `json:"actionText" yaml:"actionText"`
	DescriptionTemplate string  `json:"descriptionTemplate" yaml:"descriptionTemplate"` // fmt verb receives the percentage
	UrgencyTier         Urgency `json:"urgencyTier" yaml:"urgencyTier"`
}

// Recommendation is a catalogue entry rendered against a metric
type Recommendation struct {
	Icon        string  `json:"icon"`
	Priority    string  `json:"priority"`
	Title       string  `json:"title"`
	Action      string  `json:"action"`
	Description string  `json:"description"`
	Urgency     Urgency `json:"urgency"`
}

// Insight is a narrative line chosen by a threshold rule
type Insight struct {
	Rule string `json:"rule"`
	Tier string `json:"tier"`
	Text string `json:"text"`
}

// ThemeCount is the summed token count for one theme
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// UrgencyCounts tallies recommendations per urgency tier
func UrgencyCounts(recs []Recommendation) map[Urgency]int {
	out := map[Urgency]int{UrgencyHigh: 0, UrgencyMedium: 0, UrgencyLow: 0}
	for _, r := range recs {
		out[r.Urgency]++
	}
	return out
}
