package insight

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"shespeaks/internal/model"
)

// Catalogue rule keys
const (
	RuleCulture   = "culture"
	RuleSupport   = "support"
	RulePolicy    = "policy"
	RuleEducation = "education"

	RuleBarrierFear       = "barrier-fear"
	RuleBarrierSafety     = "barrier-safety"
	RuleBarrierConfidence = "barrier-confidence"
	RuleBarrierSupport    = "barrier-support"

	RuleHelpPrefix = "help-"
	RuleMoreData   = "more-data"
)

//go:embed catalogue.yaml
var defaultCatalogueYAML []byte

// Catalogue maps a rule and urgency to its recommendation template
type Catalogue map[string]map[model.Urgency]model.CatalogueEntry

// required lists the urgencies each rule must define
var required = map[string][]model.Urgency{
	RuleCulture:                        {model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow},
	RuleSupport:                        {model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow},
	RulePolicy:                         {model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow},
	RuleEducation:                      {model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow},
	RuleBarrierFear:                    {model.UrgencyHigh, model.UrgencyMedium},
	RuleBarrierSafety:                  {model.UrgencyHigh, model.UrgencyMedium},
	RuleBarrierConfidence:              {model.UrgencyHigh, model.UrgencyMedium},
	RuleBarrierSupport:                 {model.UrgencyHigh, model.UrgencyMedium},
	RuleHelpPrefix + OptWomenMentors:   {model.UrgencyHigh, model.UrgencyMedium},
	RuleHelpPrefix + OptLateNight:      {model.UrgencyHigh, model.UrgencyMedium},
	RuleHelpPrefix + OptAllGirlsTeams:  {model.UrgencyHigh, model.UrgencyMedium},
	RuleHelpPrefix + OptAnonReporting:  {model.UrgencyHigh, model.UrgencyMedium},
	RuleHelpPrefix + OptTransparentSel: {model.UrgencyHigh, model.UrgencyMedium},
	RuleMoreData:                       {model.UrgencyLow},
}

// DefaultCatalogue returns the built-in catalogue
func DefaultCatalogue() Catalogue {
	cat, err := ParseCatalogue(bytes.NewReader(defaultCatalogueYAML))
	if err != nil {
		panic("insight: embedded catalogue invalid: " + err.Error())
	}
	return cat
}

// LoadCatalogue reads a catalogue override from a YAML file
func LoadCatalogue(path string) (Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCatalogue(f)
}

// ParseCatalogue decodes and validates a catalogue document
func ParseCatalogue(r io.Reader) (Catalogue, error) {
	var raw map[string]map[model.Urgency]model.CatalogueEntry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	cat := make(Catalogue, len(raw))
	for rule, tiers := range raw {
		cat[rule] = make(map[model.Urgency]model.CatalogueEntry, len(tiers))
		for urgency, entry := range tiers {
			switch urgency {
			case model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow:
			default:
				return nil, fmt.Errorf("rule %q: unknown urgency %q", rule, urgency)
			}
			entry.UrgencyTier = urgency
			cat[rule][urgency] = entry
		}
	}

	for rule, urgencies := range required {
		for _, u := range urgencies {
			if _, ok := cat[rule][u]; !ok {
				return nil, fmt.Errorf("rule %q: missing %s entry", rule, u)
			}
		}
	}
	return cat, nil
}

// Render fills the entry's template with pct
func (c Catalogue) Render(rule string, urgency model.Urgency, pct float64) model.Recommendation {
	entry := c[rule][urgency]
	desc := entry.DescriptionTemplate
	if strings.Contains(desc, "%") {
		desc = fmt.Sprintf(desc, pct)
	}
	return model.Recommendation{
		Icon:        entry.Icon,
		Priority:    entry.PriorityTier,
		Title:       entry.Title,
		Action:      entry.ActionText,
		Description: desc,
		Urgency:     entry.UrgencyTier,
	}
}
