// Package report assembles classified alerts and diff data into the single
// output artifact of a detection run, and renders it to JSON, text and PDF.
package report

import (
	"encoding/json"
	"time"

	"twiniz/persistdetect/alert"
	"twiniz/persistdetect/diff"
	"twiniz/persistdetect/snapshot"
)

// Diff is the serialized shape of the per-category delta. Keys are fixed;
// consumers of the JSON report depend on them.
type Diff struct {
	UID0Added              []string `json:"uid0_added"`
	SUIDAdded              []string `json:"suid_added"`
	SUIDRemoved            []string `json:"suid_removed"`
	SudoersDAdded          []string `json:"sudoers_d_added"`
	SudoersDRemoved        []string `json:"sudoers_d_removed"`
	EnabledServicesAdded   []string `json:"enabled_services_added"`
	EnabledServicesRemoved []string `json:"enabled_services_removed"`
}

// Report is the sole output of a detection run: the current snapshot's
// timestamp, the ordered alerts, the diff data, and the per-category
// collection statuses of the current snapshot so a reader can tell a clean
// category from a silently degraded one.
type Report struct {
	GeneratedAt time.Time
	Alerts      []alert.Alert
	Diff        Diff
	Statuses    map[string]snapshot.CategoryStatus
}

// Assemble builds a Report from the current snapshot, the classified alerts
// and the raw diff. Purely structural: no filtering, no deduplication.
func Assemble(current *snapshot.Snapshot, alerts []alert.Alert, d diff.SnapshotDiff) Report {
	return Report{
		GeneratedAt: current.GeneratedAt,
		Alerts:      alerts,
		Diff: Diff{
			UID0Added:              d.UID0.Added,
			SUIDAdded:              d.SUID.Added,
			SUIDRemoved:            d.SUID.Removed,
			SudoersDAdded:          d.SudoersD.Added,
			SudoersDRemoved:        d.SudoersD.Removed,
			EnabledServicesAdded:   d.EnabledServices.Added,
			EnabledServicesRemoved: d.EnabledServices.Removed,
		},
		Statuses: current.Statuses,
	}
}

// jsonReport is the wire shape: alerts flatten to display strings.
type jsonReport struct {
	GeneratedAt time.Time                          `json:"generated_at"`
	Alerts      []string                           `json:"alerts"`
	Diff        Diff                               `json:"diff"`
	Statuses    map[string]snapshot.CategoryStatus `json:"collection_status,omitempty"`
}

// MarshalJSON serializes alerts as rendered strings, matching the report
// document format.
func (r Report) MarshalJSON() ([]byte, error) {
	out := jsonReport{
		GeneratedAt: r.GeneratedAt,
		Alerts:      make([]string, len(r.Alerts)),
		Diff:        r.Diff,
		Statuses:    r.Statuses,
	}
	for i, a := range r.Alerts {
		out.Alerts[i] = a.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a report from its wire shape. Alert strings are
// split back into severity and message on a best-effort basis so stored
// reports can be re-rendered.
func (r *Report) UnmarshalJSON(data []byte) error {
	var in jsonReport
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	r.GeneratedAt = in.GeneratedAt
	r.Diff = in.Diff
	r.Statuses = in.Statuses
	r.Alerts = make([]alert.Alert, len(in.Alerts))
	for i, s := range in.Alerts {
		r.Alerts[i] = parseAlertString(s)
	}
	return nil
}

func parseAlertString(s string) alert.Alert {
	for _, sev := range []alert.Severity{alert.SeverityAlert, alert.SeverityInfo, alert.SeverityOK} {
		prefix := "[" + string(sev) + "] "
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return alert.Alert{Severity: sev, Message: s[len(prefix):]}
		}
	}
	return alert.Alert{Severity: alert.SeverityInfo, Message: s}
}
