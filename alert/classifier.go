package alert

import (
	"fmt"

	"twiniz/persistdetect/diff"
)

// displayLimit caps how many elements an alert message lists. It is a
// presentation policy only; the full sets stay available in the diff data.
const displayLimit = 10

// okMessage is the single alert emitted when nothing fired.
const okMessage = "No suspicious changes detected compared to baseline."

// Classify maps a snapshot diff to zero or more alerts via the fixed rule
// table. Every rule is evaluated on every run; there is no short-circuit,
// so one run can emit any combination of findings. When nothing fires, the
// result is a single OK alert.
//
// The table, per category:
//
//	uid0 accounts      added -> ALERT   removed -> (no rule)
//	suid files         added -> ALERT   removed -> INFO   (display capped)
//	sudoers.d files    added -> ALERT   removed -> INFO
//	enabled services   added -> ALERT   removed -> INFO   (display capped)
//	cron dirs, each    added -> ALERT   removed -> INFO
func Classify(d diff.SnapshotDiff) []Alert {
	var alerts []Alert

	if len(d.UID0.Added) > 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityAlert,
			Message:  fmt.Sprintf("New UID=0 user(s) detected: %s", formatList(d.UID0.Added, 0)),
		})
	}

	if len(d.SUID.Added) > 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityAlert,
			Message:  fmt.Sprintf("New SUID binaries found: %s", formatList(d.SUID.Added, displayLimit)),
		})
	}
	if len(d.SUID.Removed) > 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("SUID binaries removed: %s", formatList(d.SUID.Removed, displayLimit)),
		})
	}

	if len(d.SudoersD.Added) > 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityAlert,
			Message:  fmt.Sprintf("New /etc/sudoers.d file(s): %s", formatList(d.SudoersD.Added, 0)),
		})
	}
	if len(d.SudoersD.Removed) > 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("Removed /etc/sudoers.d file(s): %s", formatList(d.SudoersD.Removed, 0)),
		})
	}

	if len(d.EnabledServices.Added) > 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityAlert,
			Message: fmt.Sprintf("New enabled service entries detected (possible persistence): %s",
				formatList(d.EnabledServices.Added, displayLimit)),
		})
	}
	if len(d.EnabledServices.Removed) > 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityInfo,
			Message: fmt.Sprintf("Enabled service entries removed: %s",
				formatList(d.EnabledServices.Removed, displayLimit)),
		})
	}

	for _, dir := range d.CronDirNames() {
		r := d.CronDirs[dir]
		if len(r.Added) > 0 {
			alerts = append(alerts, Alert{
				Severity: SeverityAlert,
				Message:  fmt.Sprintf("New cron file(s) in %s: %s", dir, formatList(r.Added, 0)),
			})
		}
		if len(r.Removed) > 0 {
			alerts = append(alerts, Alert{
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("Removed cron file(s) in %s: %s", dir, formatList(r.Removed, 0)),
			})
		}
	}

	if len(alerts) == 0 {
		return []Alert{{Severity: SeverityOK, Message: okMessage}}
	}
	return alerts
}

// formatList renders items for an alert message. With a positive limit, at
// most limit elements are shown followed by an ellipsis marker; the
// underlying data is untouched.
func formatList(items []string, limit int) string {
	if limit > 0 && len(items) > limit {
		return fmt.Sprintf("%v ...", items[:limit])
	}
	return fmt.Sprintf("%v", items)
}
