// Package onboarding implements the inline-button flow that fills a chat's
// preference record: language, then sentiment, then response type.
package onboarding

import (
	"strings"

	"github.com/edgard/nexabot/internal/preferences"
)

// Step identifies which preference a callback payload sets.
type Step string

const (
	StepLanguage  Step = "lang"
	StepSentiment Step = "sentiment"
	StepType      Step = "type"
)

const separator = ":"

// Button is an inline keyboard button.
type Button struct {
	Label string
	Data  string
}

// Menu is a keyboard laid out in rows.
type Menu [][]Button

// Choice is a parsed callback payload.
type Choice struct {
	Step  Step
	Value string
}

// CallbackData renders a payload for step and value.
func CallbackData(step Step, value string) string {
	return string(step) + separator + value
}

// ParseCallback parses a callback payload. ok is false for anything that is
// not one of the onboarding steps with a non-empty value.
func ParseCallback(data string) (Choice, bool) {
	step, value, found := strings.Cut(data, separator)
	if !found || value == "" {
		return Choice{}, false
	}
	switch Step(step) {
	case StepLanguage, StepSentiment, StepType:
		return Choice{Step: Step(step), Value: value}, true
	default:
		return Choice{}, false
	}
}

// IsCallback reports whether data belongs to the onboarding flow.
func IsCallback(data string) bool {
	_, ok := ParseCallback(data)
	return ok
}

// expected maps each stage to the only step it accepts.
var expected = map[preferences.Stage]Step{
	preferences.StageUnset:           StepLanguage,
	preferences.StageLanguageChosen:  StepSentiment,
	preferences.StageSentimentChosen: StepType,
}

// Flow validates choices against the configured language codes.
type Flow struct {
	languages map[string]string
	order     []string
}

// Language is a selectable language.
type Language struct {
	Code  string
	Label string
}

// NewFlow creates a flow offering the given languages in order.
func NewFlow(languages []Language) *Flow {
	f := &Flow{languages: make(map[string]string, len(languages))}
	for _, l := range languages {
		if _, dup := f.languages[l.Code]; !dup {
			f.order = append(f.order, l.Code)
		}
		f.languages[l.Code] = l.Label
	}
	return f
}

// LanguageLabel returns the display label for code, or code itself.
func (f *Flow) LanguageLabel(code string) string {
	if label, ok := f.languages[code]; ok {
		return label
	}
	return code
}

// Apply moves prefs one stage forward according to choice. It returns the
// updated record and true, or prefs unchanged and false when the choice does
// not match the current stage or carries an unknown value.
func (f *Flow) Apply(prefs preferences.Preferences, choice Choice) (preferences.Preferences, bool) {
	want, ok := expected[prefs.Stage()]
	if !ok || choice.Step != want {
		return prefs, false
	}

	switch choice.Step {
	case StepLanguage:
		if _, known := f.languages[choice.Value]; !known {
			return prefs, false
		}
		prefs.Language = choice.Value
	case StepSentiment:
		prefs.Sentiment = choice.Value
	case StepType:
		if choice.Value != preferences.ResponseGood && choice.Value != preferences.ResponseBad {
			return prefs, false
		}
		prefs.ResponseType = choice.Value
	}
	return prefs, true
}

// LanguageMenu lists the configured languages, two per row.
func (f *Flow) LanguageMenu() Menu {
	var menu Menu
	var row []Button
	for _, code := range f.order {
		row = append(row, Button{Label: f.languages[code], Data: CallbackData(StepLanguage, code)})
		if len(row) == 2 {
			menu = append(menu, row)
			row = nil
		}
	}
	if len(row) > 0 {
		menu = append(menu, row)
	}
	return menu
}

// SentimentMenu offers the three sentiments on one row.
func SentimentMenu() Menu {
	return Menu{{
		{Label: "😊 Positive", Data: CallbackData(StepSentiment, preferences.SentimentPositive)},
		{Label: "😐 Neutral", Data: CallbackData(StepSentiment, preferences.SentimentNeutral)},
		{Label: "😠 Negative", Data: CallbackData(StepSentiment, preferences.SentimentNegative)},
	}}
}

// TypeMenu offers the response types on one row.
func TypeMenu() Menu {
	return Menu{{
		{Label: "👍 Good", Data: CallbackData(StepType, preferences.ResponseGood)},
		{Label: "👎 Bad", Data: CallbackData(StepType, preferences.ResponseBad)},
	}}
}
