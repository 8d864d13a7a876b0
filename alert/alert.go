// Package alert classifies snapshot deltas into severity-tagged alerts
// using a fixed per-category rule table.
package alert

import "fmt"

// Severity is the closed set of alert levels.
type Severity string

const (
	// SeverityAlert flags a change consistent with persistence or privilege
	// escalation.
	SeverityAlert Severity = "ALERT"
	// SeverityInfo flags a change worth knowing about but not inherently
	// hostile, such as something disappearing.
	SeverityInfo Severity = "INFO"
	// SeverityOK is emitted exactly once when no rule fired.
	SeverityOK Severity = "OK"
)

// Alert is one classified finding.
type Alert struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// String renders the alert the way reports display it.
func (a Alert) String() string {
	return fmt.Sprintf("[%s] %s", a.Severity, a.Message)
}
