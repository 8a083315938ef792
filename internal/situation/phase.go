package situation

// TimePhase is the ordered time-bucket enum of the situation model.
// T0_IMPACT < T1_EARLY_RESPONSE < T2_STABILIZATION < T3_OUTCOME.
type TimePhase int

const (
	T0Impact TimePhase = iota
	T1EarlyResponse
	T2Stabilization
	T3Outcome
)

// HourAnchor returns the representative hours-since-event used when a
// slice is built for this phase.
func (p TimePhase) HourAnchor() float64 {
	switch p {
	case T0Impact:
		return 0.0
	case T1EarlyResponse:
		return 12.0
	case T2Stabilization:
		return 24.0
	case T3Outcome:
		return 72.0
	default:
		return 0.0
	}
}

// RelativeTimeLabel returns the human-readable label attached to a
// TimeSlice built at this phase.
func (p TimePhase) RelativeTimeLabel() string {
	switch p {
	case T0Impact:
		return "0-6 hours"
	case T1EarlyResponse:
		return "12-24 hours"
	case T2Stabilization:
		return "24-48 hours"
	case T3Outcome:
		return "post-event"
	default:
		return "unknown"
	}
}

// String renders the phase the way it appears in raw situation payloads
// (event_identity.phase) and is consulted by the phase-compatibility check.
func (p TimePhase) String() string {
	switch p {
	case T0Impact:
		return "T0_IMPACT"
	case T1EarlyResponse:
		return "T1_EARLY_RESPONSE"
	case T2Stabilization:
		return "T2_STABILIZATION"
	case T3Outcome:
		return "T3_OUTCOME"
	default:
		return "UNKNOWN"
	}
}

// ParsePhase maps a phase token (as it appears in ingestion raw input or a
// stored payload) back onto the enum. Unrecognized tokens default to
// T0Impact — callers that need to distinguish "absent" from "T0" must
// check presence upstream.
func ParsePhase(s string) TimePhase {
	switch s {
	case "T1_EARLY_RESPONSE", "early_response":
		return T1EarlyResponse
	case "T2_STABILIZATION", "stabilization":
		return T2Stabilization
	case "T3_OUTCOME", "outcome":
		return T3Outcome
	default:
		return T0Impact
	}
}
