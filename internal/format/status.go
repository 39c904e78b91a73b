package format

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies a status badge for the UI.
type Severity string

const (
	SeveritySuccess   Severity = "success"
	SeverityWarning   Severity = "warning"
	SeverityDanger    Severity = "danger"
	SeverityInfo      Severity = "info"
	SeveritySecondary Severity = "secondary"
)

// Badge is the display form of an entity status code.
type Badge struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// UnknownBadge is rendered for any status code missing from a StatusSet.
// Unknown codes never error; the grid keeps rendering.
var UnknownBadge = Badge{Label: "Unknown", Severity: SeveritySecondary}

// StatusSet maps raw backend status codes to badges. Codes are keyed as
// strings; Lookup normalizes numeric codes before the lookup so a backend
// that flips between 1 and "1" still resolves.
type StatusSet map[string]Badge

// Lookup resolves a raw status value to its badge.
func (s StatusSet) Lookup(code any) Badge {
	if badge, ok := s[StatusKey(code)]; ok {
		return badge
	}
	return UnknownBadge
}

// StatusKey normalizes a raw status value to its map key form.
func StatusKey(code any) string {
	switch v := code.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float64:
		// JSON numbers decode as float64; statuses are small integers.
		return fmt.Sprintf("%d", int64(v))
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
