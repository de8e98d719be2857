package insight

// Survey field names
const (
	FieldYear           = "year"
	FieldCourse         = "course"
	FieldJudged         = "judged"
	FieldVoice          = "voice"
	FieldSteppedBack    = "stepped-back"
	FieldCurfews        = "curfews"
	FieldHelp           = "help"
	FieldHeldBackReport = "held-back-report"
	FieldOneChange      = "one-change"
	FieldAdvice         = "advice"
)

// ScaleQuestion is a 1-5 agreement question
type ScaleQuestion struct {
	Key   string
	Label string
}

// MoodQuestions feed the sentiment index, in display order
var MoodQuestions = []ScaleQuestion{
	{Key: "boys-club", Label: "Engineering feels like boys' club"},
	{Key: "equal-chances", Label: "Equal opportunity"},
	{Key: "safe-supported", Label: "Feeling safe and supported"},
	{Key: "held-back", Label: "Held back from speaking"},
	{Key: "women-mentors", Label: "Wish for more women mentors"},
}

// JudgedMatches are the judged answers counted as having felt judged
var JudgedMatches = []string{"multiple", "sometimes"}

// FinalYear is the year value compared against all others in the curfew breakdown
const FinalYear = "Final"

// Help options
const (
	OptAllGirlsTeams  = "all-girls-teams"
	OptWomenMentors   = "women-mentors"
	OptLateNight      = "late-night-access"
	OptTransparentSel = "transparent-selections"
	OptAnonReporting  = "anonymous-reporting"
	OptNotSure        = "not-sure"
)

// HelpOption is a fixed multiselect option with its display label
type HelpOption struct {
	Key   string
	Label string
}

// HelpOptions is the fixed option breakdown in display order
var HelpOptions = []HelpOption{
	{Key: OptAllGirlsTeams, Label: "All-girls tech teams"},
	{Key: OptWomenMentors, Label: "Women tech mentors/speakers"},
	{Key: OptLateNight, Label: "Late-night lab/hackathon access"},
	{Key: OptTransparentSel, Label: "Transparent team selections"},
	{Key: OptAnonReporting, Label: "Anonymous reporting system"},
	{Key: OptNotSure, Label: "Not sure yet"},
}

// HelpLabel returns the display label for an option key, or the key itself
func HelpLabel(key string) string {
	for _, o := range HelpOptions {
		if o.Key == key {
			return o.Label
		}
	}
	return key
}

var voiceLabels = map[string]string{
	"heard":       "Voice Heard",
	"ignored":     "Voice Ignored",
	"talked-over": "Talked Over",
	"depends":     "Depends on Situation",
}

// VoiceLabel returns the display label for a voice answer, or the answer itself
func VoiceLabel(voice string) string {
	if l, ok := voiceLabels[voice]; ok {
		return l
	}
	return voice
}
