package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"twiniz/persistdetect/collector"
)

const banner = "Linux Persistence & Privilege Escalation Detection Report"

// Text renders the human-readable form of a report under the fixed banner.
func Text(r Report) string {
	var b strings.Builder

	b.WriteString(banner + "\n")
	b.WriteString(strings.Repeat("=", len(banner)) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	b.WriteString("\n")

	b.WriteString("Alerts:\n")
	for _, a := range r.Alerts {
		b.WriteString(a.String() + "\n")
	}

	if degraded := degradedCategories(r); len(degraded) > 0 {
		b.WriteString("\n")
		b.WriteString("Collection warnings:\n")
		for _, line := range degraded {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// degradedCategories lists categories whose collection did not complete
// cleanly, so an empty diff is not mistaken for a clean host when the
// collector itself failed.
func degradedCategories(r Report) []string {
	var lines []string
	for category, st := range r.Statuses {
		if st.Status == collector.StatusOK && !st.Truncated {
			continue
		}
		line := fmt.Sprintf("- %s: collection status %s", category, st.Status)
		if st.Truncated {
			line += " (listing truncated at cap)"
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}
