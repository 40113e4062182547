// Package evidence infers which supporting-document types a plan is expected
// to carry, and scores how many of the required ones are actually linked.
package evidence

import (
	"strings"

	"github.com/GuardianAI1/triaia/internal/plan"
)

// Well-known document types.
const (
	TypeFlightItinerary     = "flight_itinerary"
	TypeBoardingPass        = "boarding_pass"
	TypeGroundTransport     = "ground_transport"
	TypeEventTicket         = "event_ticket"
	TypeHotel               = "hotel"
	TypeCalendarHold        = "calendar_hold"
	TypeMeetingConfirmation = "meeting_confirmation"
	TypeResourceBaseline    = "resource_baseline"
	TypeBoundaryCommitment  = "boundary_commitment"
)

// Suggestion is one expected document type for a plan.
type Suggestion struct {
	Type     string
	Required bool
	Reason   string
}

// Keyword groups consulted over the plan's free text (description, step
// titles, notes).
var (
	flightKeywords  = []string{"flight", "fly", "airport", "airline", "boarding", "gate", "terminal", "layover"}
	eventKeywords   = []string{"concert", "festival", "show", "event", "conference", "expo", "match", "game"}
	meetingKeywords = []string{"meeting", "interview", "appointment", "call", "standup", "review"}
)

// BoundaryRelevantTypes are the document types whose absence directly
// weakens confidence in the boundary itself.
var BoundaryRelevantTypes = map[string]bool{
	TypeFlightItinerary:     true,
	TypeBoardingPass:        true,
	TypeEventTicket:         true,
	TypeMeetingConfirmation: true,
}

// Suggest maps the plan's regime and free-text context to expected document
// types. flightDetected forces the flight rule on, e.g. after a successful
// boarding-pass extraction.
func Suggest(regime plan.Regime, contextText string, flightDetected bool) []Suggestion {
	text := strings.ToLower(contextText)

	var out []Suggestion

	if flightDetected || containsAny(text, flightKeywords) {
		out = append(out,
			Suggestion{Type: TypeFlightItinerary, Required: true, Reason: "flight context detected"},
			Suggestion{Type: TypeBoardingPass, Required: true, Reason: "flight context detected"},
			Suggestion{Type: TypeGroundTransport, Required: false, Reason: "flight context detected"},
		)
	}

	if containsAny(text, eventKeywords) {
		out = append(out,
			Suggestion{Type: TypeEventTicket, Required: true, Reason: "event context detected"},
			Suggestion{Type: TypeHotel, Required: false, Reason: "event context detected"},
			Suggestion{Type: TypeCalendarHold, Required: false, Reason: "event context detected"},
		)
	}

	if containsAny(text, meetingKeywords) {
		// A meeting confirmation is only load-bearing when the deadline is
		// irreversible.
		out = append(out, Suggestion{
			Type:     TypeMeetingConfirmation,
			Required: regime == plan.RegimeHard,
			Reason:   "meeting context detected",
		})
	}

	if regime == plan.RegimeResource {
		out = append(out, Suggestion{
			Type:     TypeResourceBaseline,
			Required: true,
			Reason:   "resource regime requires a baseline document",
		})
	}

	out = dedupe(out)

	// Every hard-regime plan gets at least one required evidence type, so
	// readiness is a meaningful fraction rather than vacuously complete.
	if regime == plan.RegimeHard && !anyRequired(out) {
		out = append(out, Suggestion{
			Type:     TypeBoundaryCommitment,
			Required: true,
			Reason:   "hard regime with no specific evidence expectations",
		})
	}

	return out
}

// dedupe collapses suggestions by document type; the required flag wins on
// conflict.
func dedupe(in []Suggestion) []Suggestion {
	byType := make(map[string]int)
	var out []Suggestion
	for _, s := range in {
		if idx, ok := byType[s.Type]; ok {
			if s.Required && !out[idx].Required {
				out[idx].Required = true
				out[idx].Reason = s.Reason
			}
			continue
		}
		byType[s.Type] = len(out)
		out = append(out, s)
	}
	return out
}

func anyRequired(suggestions []Suggestion) bool {
	for _, s := range suggestions {
		if s.Required {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
