package evidence

import (
	"testing"

	"github.com/GuardianAI1/triaia/internal/plan"
)

func suggestionFor(t *testing.T, suggestions []Suggestion, docType string) (Suggestion, bool) {
	t.Helper()
	for _, s := range suggestions {
		if s.Type == docType {
			return s, true
		}
	}
	return Suggestion{}, false
}

func TestSuggestFlightContext(t *testing.T) {
	got := Suggest(plan.RegimeHard, "Catch the flight to Lisbon from terminal 1", false)

	itinerary, ok := suggestionFor(t, got, TypeFlightItinerary)
	if !ok || !itinerary.Required {
		t.Errorf("flight itinerary should be a required suggestion, got %+v", got)
	}
	pass, ok := suggestionFor(t, got, TypeBoardingPass)
	if !ok || !pass.Required {
		t.Errorf("boarding pass should be a required suggestion, got %+v", got)
	}
	transport, ok := suggestionFor(t, got, TypeGroundTransport)
	if !ok || transport.Required {
		t.Errorf("ground transport should be optional, got %+v", got)
	}
}

func TestSuggestFlightDetectedFlag(t *testing.T) {
	// No flight keywords in the text; the extraction flag forces the rule.
	got := Suggest(plan.RegimeSoft, "get to the coast by friday", true)
	if _, ok := suggestionFor(t, got, TypeFlightItinerary); !ok {
		t.Errorf("flightDetected should add flight suggestions, got %+v", got)
	}
}

func TestSuggestMeetingRequiredOnlyUnderHardRegime(t *testing.T) {
	hard := Suggest(plan.RegimeHard, "final interview with the platform team", false)
	soft := Suggest(plan.RegimeSoft, "final interview with the platform team", false)

	hm, ok := suggestionFor(t, hard, TypeMeetingConfirmation)
	if !ok || !hm.Required {
		t.Errorf("meeting confirmation should be required under hard regime, got %+v", hard)
	}
	sm, ok := suggestionFor(t, soft, TypeMeetingConfirmation)
	if !ok || sm.Required {
		t.Errorf("meeting confirmation should be optional under soft regime, got %+v", soft)
	}
}

func TestSuggestResourceRegimeBaseline(t *testing.T) {
	got := Suggest(plan.RegimeResource, "stay under the travel budget", false)
	baseline, ok := suggestionFor(t, got, TypeResourceBaseline)
	if !ok || !baseline.Required {
		t.Errorf("resource regime must require a resource baseline, got %+v", got)
	}
}

func TestSuggestHardRegimeFallback(t *testing.T) {
	got := Suggest(plan.RegimeHard, "just be there on time", false)
	fallback, ok := suggestionFor(t, got, TypeBoundaryCommitment)
	if !ok || !fallback.Required {
		t.Errorf("hard regime with no other required suggestion must require a boundary commitment, got %+v", got)
	}

	// Soft regime gets no such fallback.
	soft := Suggest(plan.RegimeSoft, "just be there on time", false)
	if _, ok := suggestionFor(t, soft, TypeBoundaryCommitment); ok {
		t.Errorf("soft regime should not get the boundary commitment fallback, got %+v", soft)
	}
}

func TestSuggestDeduplicatesRequiredWins(t *testing.T) {
	// "conference" triggers the event rule; a second rule adding the same
	// type as optional must not downgrade it.
	got := Suggest(plan.RegimeHard, "fly to the conference, boarding at gate 4", false)

	seen := make(map[string]int)
	for _, s := range got {
		seen[s.Type]++
	}
	for docType, n := range seen {
		if n > 1 {
			t.Errorf("suggestion type %q appears %d times, want 1", docType, n)
		}
	}
}

func TestDeriveCoverageAndLabels(t *testing.T) {
	suggestions := []Suggestion{
		{Type: TypeFlightItinerary, Required: true},
		{Type: TypeBoardingPass, Required: true},
		{Type: TypeGroundTransport, Required: false},
	}

	tests := []struct {
		name         string
		documents    []plan.Document
		wantCoverage float64
		wantLabel    string
	}{
		{
			name:         "nothing linked",
			documents:    nil,
			wantCoverage: 0,
			wantLabel:    "thin",
		},
		{
			name: "placeholder documents do not count",
			documents: []plan.Document{
				{Type: TypeFlightItinerary},
				{Type: TypeBoardingPass},
			},
			wantCoverage: 0,
			wantLabel:    "thin",
		},
		{
			name: "half linked",
			documents: []plan.Document{
				{Type: TypeFlightItinerary, Title: "Outbound itinerary"},
			},
			wantCoverage: 0.5,
			wantLabel:    "partial",
		},
		{
			name: "all required linked",
			documents: []plan.Document{
				{Type: TypeFlightItinerary, Title: "Outbound itinerary"},
				{Type: TypeBoardingPass, ReferenceCode: "XYZ1234"},
			},
			wantCoverage: 1,
			wantLabel:    "linked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Derive(tt.documents, suggestions)
			if r.Coverage != tt.wantCoverage {
				t.Errorf("Coverage = %v, want %v", r.Coverage, tt.wantCoverage)
			}
			if r.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", r.Label, tt.wantLabel)
			}
		})
	}
}

func TestDeriveZeroRequiredSpecialCases(t *testing.T) {
	suggestions := []Suggestion{{Type: TypeCalendarHold, Required: false}}

	r := Derive(nil, suggestions)
	if r.Label != "none detected" || r.Coverage != 0 {
		t.Errorf("no documents: got label %q coverage %v, want none detected / 0", r.Label, r.Coverage)
	}

	r = Derive([]plan.Document{{Type: TypeHotel, Title: "Hotel reservation"}}, suggestions)
	if r.Label != "baseline" || r.Coverage != baselineCoverage {
		t.Errorf("any document, zero required: got label %q coverage %v, want baseline / %v", r.Label, r.Coverage, baselineCoverage)
	}
}

func TestMissingBoundaryRelevant(t *testing.T) {
	r := Readiness{MissingTypes: []string{TypeFlightItinerary, TypeGroundTransport, TypeEventTicket}}
	if got := r.MissingBoundaryRelevant(); got != 2 {
		t.Errorf("MissingBoundaryRelevant() = %d, want 2", got)
	}
}
