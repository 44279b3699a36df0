package onboarding

import (
	"testing"

	"github.com/edgard/nexabot/internal/preferences"
)

func testFlow() *Flow {
	return NewFlow([]Language{
		{Code: "bn", Label: "Bangla"},
		{Code: "en", Label: "English"},
		{Code: "hi", Label: "Hindi"},
	})
}

func TestParseCallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data   string
		want   Choice
		wantOK bool
	}{
		{data: "lang:bn", want: Choice{Step: StepLanguage, Value: "bn"}, wantOK: true},
		{data: "sentiment:positive", want: Choice{Step: StepSentiment, Value: "positive"}, wantOK: true},
		{data: "type:good", want: Choice{Step: StepType, Value: "good"}, wantOK: true},
		{data: "sentiment:a:b", want: Choice{Step: StepSentiment, Value: "a:b"}, wantOK: true},
		{data: "lang:", wantOK: false},
		{data: "lang", wantOK: false},
		{data: "color:red", wantOK: false},
		{data: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseCallback(tt.data)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseCallback(%q) = %+v, %v; want %+v, %v", tt.data, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestApplyRoundTrip(t *testing.T) {
	t.Parallel()
	f := testFlow()

	var p preferences.Preferences
	steps := []struct {
		choice Choice
		stage  preferences.Stage
	}{
		{Choice{StepLanguage, "en"}, preferences.StageLanguageChosen},
		{Choice{StepSentiment, "negative"}, preferences.StageSentimentChosen},
		{Choice{StepType, "bad"}, preferences.StageComplete},
	}
	for _, s := range steps {
		var ok bool
		p, ok = f.Apply(p, s.choice)
		if !ok {
			t.Fatalf("Apply(%+v) rejected", s.choice)
		}
		if p.Stage() != s.stage {
			t.Fatalf("after %+v stage = %v, want %v", s.choice, p.Stage(), s.stage)
		}
	}

	want := preferences.Preferences{Language: "en", Sentiment: "negative", ResponseType: "bad"}
	if p != want {
		t.Errorf("final preferences = %+v, want %+v", p, want)
	}
}

func TestApplyRejects(t *testing.T) {
	t.Parallel()
	f := testFlow()

	tests := []struct {
		name   string
		prefs  preferences.Preferences
		choice Choice
	}{
		{name: "unknown language", prefs: preferences.Preferences{}, choice: Choice{StepLanguage, "xx"}},
		{name: "sentiment before language", prefs: preferences.Preferences{}, choice: Choice{StepSentiment, "positive"}},
		{name: "type before sentiment", prefs: preferences.Preferences{Language: "bn"}, choice: Choice{StepType, "good"}},
		{name: "language again", prefs: preferences.Preferences{Language: "bn"}, choice: Choice{StepLanguage, "en"}},
		{name: "unknown type", prefs: preferences.Preferences{Language: "bn", Sentiment: "neutral"}, choice: Choice{StepType, "meh"}},
		{name: "complete", prefs: preferences.Preferences{Language: "bn", Sentiment: "neutral", ResponseType: "good"}, choice: Choice{StepLanguage, "en"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := f.Apply(tt.prefs, tt.choice)
			if ok {
				t.Errorf("Apply() accepted %+v", tt.choice)
			}
			if got != tt.prefs {
				t.Errorf("Apply() changed preferences to %+v", got)
			}
		})
	}
}

func TestApplySentimentVerbatim(t *testing.T) {
	t.Parallel()
	got, ok := testFlow().Apply(preferences.Preferences{Language: "bn"}, Choice{StepSentiment, "sarcastic"})
	if !ok || got.Sentiment != "sarcastic" {
		t.Errorf("Apply() = %+v, %v; want sentiment stored verbatim", got, ok)
	}
}

func TestLanguageMenu(t *testing.T) {
	t.Parallel()
	menu := testFlow().LanguageMenu()

	if len(menu) != 2 || len(menu[0]) != 2 || len(menu[1]) != 1 {
		t.Fatalf("unexpected menu layout: %+v", menu)
	}
	if menu[0][0].Data != "lang:bn" || menu[1][0].Label != "Hindi" {
		t.Errorf("unexpected menu contents: %+v", menu)
	}
	for _, row := range append(SentimentMenu(), TypeMenu()...) {
		for _, b := range row {
			if !IsCallback(b.Data) {
				t.Errorf("button %+v carries non-onboarding data", b)
			}
		}
	}
}
