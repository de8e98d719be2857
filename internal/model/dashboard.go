package model

// CountsView is a ranked categorical breakdown ready for charting
type CountsView struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"` // non-missing rows behind the counts
}

// OverviewPage holds the headline metrics and narrative insights
type OverviewPage struct {
	Empty            bool      `json:"empty"`
	TotalResponses   int       `json:"totalResponses"`
	UniqueCourses    int       `json:"uniqueCourses"`
	UniqueYears      int       `json:"uniqueYears"`
	AvgSentiment     float64   `json:"avgSentiment"`
	SentimentHasData bool      `json:"sentimentHasData"`
	TopHelp          string    `json:"topHelp"`
	JudgedPercentage float64   `json:"judgedPercentage"`
	JudgedHasData    bool      `json:"judgedHasData"`
	VolumeTier       string    `json:"volumeTier"`
	SentimentTier    string    `json:"sentimentTier,omitempty"`
	JudgedTier       string    `json:"judgedTier,omitempty"`
	Insights         []Insight `json:"insights"`
}

type WhoAreYouPage struct {
	Empty      bool       `json:"empty"`
	Years      CountsView `json:"years"`
	TopCourses CountsView `json:"topCourses"` // top 10
	Judged     CountsView `json:"judged"`
}

type RealTalkPage struct {
	Empty             bool       `json:"empty"`
	Voice             CountsView `json:"voice"`
	SteppedBack       CountsView `json:"steppedBack"`
	Curfews           CountsView `json:"curfews"`
	HasCorrelation    bool       `json:"hasCorrelation"`
	FinalYearCurfews  CountsView `json:"finalYearCurfews"`
	OtherYearsCurfews CountsView `json:"otherYearsCurfews"`
}

// ScaleScore is the mean of one 1-5 scale question
type ScaleScore struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Mean    float64 `json:"mean"`
	Count   int     `json:"count"`
	HasData bool    `json:"hasData"`
}

type MoodCheckPage struct {
	Empty            bool         `json:"empty"`
	Scores           []ScaleScore `json:"scores"`
	OverallSentiment float64      `json:"overallSentiment"`
	HasData          bool         `json:"hasData"`
	SentimentTier    string       `json:"sentimentTier,omitempty"`
}

type SayItPage struct {
	Empty              bool             `json:"empty"`
	TotalResponses     int              `json:"totalResponses"`
	Quotes             []string         `json:"quotes"` // first 20
	QuoteCount         int              `json:"quoteCount"`
	ReportingResponses int              `json:"reportingResponses"`
	ChangeResponses    int              `json:"changeResponses"`
	TopWords           []Entry          `json:"topWords"`
	Themes             []ThemeCount     `json:"themes"`
	Recommendations    []Recommendation `json:"recommendations"`
	UrgencyCounts      map[Urgency]int  `json:"urgencyCounts"`
	Summary            []Insight        `json:"summary"`
}

// HelpOption is one multiselect option with its share of answering rows
type HelpOption struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// VoiceHelp is the most requested help option within one voice group
type VoiceHelp struct {
	Voice        string `json:"voice"`
	VoiceLabel   string `json:"voiceLabel"`
	TopHelp      string `json:"topHelp"`
	TopHelpLabel string `json:"topHelpLabel"`
	Count        int    `json:"count"`
}

type QuickPicksPage struct {
	Empty           bool             `json:"empty"`
	TotalResponses  int              `json:"totalResponses"`
	RowsConsidered  int              `json:"rowsConsidered"`
	Ranking         []HelpOption     `json:"ranking"`
	Options         []HelpOption     `json:"options"`
	ByVoice         []VoiceHelp      `json:"byVoice"`
	HasClearWinner  bool             `json:"hasClearWinner"`
	DiverseNeeds    bool             `json:"diverseNeeds"`
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
	UrgencyCounts   map[Urgency]int  `json:"urgencyCounts"`
}

type PartingWordsPage struct {
	Empty         bool     `json:"empty"`
	Messages      []string `json:"messages"`
	TotalMessages int      `json:"totalMessages"` // non-missing advice rows before de-duplication
}
