package ingest

import (
	"github.com/markusmobius/go-dateparser"
	"github.com/quakecase/engine/internal/logging"
	"github.com/quakecase/engine/internal/situation"
)

// attachReportedTimestamp parses an optional free-text "reported_at" field
// from the raw case dict into an absolute timestamp on the event identity.
// Absence or an unparseable string is not an error: EventIdentity.Timestamp
// simply stays unset, matching the original source's timestamp-optional
// model (it never populated an absolute timestamp at all).
func attachReportedTimestamp(raw map[string]any, identity *situation.EventIdentity) {
	text, ok := raw["reported_at"].(string)
	if !ok || text == "" {
		return
	}
	dt, err := dateparser.Parse(nil, text)
	if err != nil || dt == nil {
		log.DebugWithFields("could not parse reported_at",
			logging.Field("raw", text),
		)
		return
	}
	identity.Timestamp = dt.Time
	identity.HasTimestamp = true
}
