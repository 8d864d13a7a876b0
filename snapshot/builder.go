// Package snapshot normalizes raw collector output into the canonical
// Snapshot entity that baselines and detection runs are built from.
package snapshot

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"twiniz/persistdetect/collector"
)

// Build turns one collection pass into a Snapshot. It is a pure assembly
// step: no I/O, no failure modes. Degraded collector output shows up as
// empty categories whose status says why.
func Build(facts collector.Facts, now time.Time) *Snapshot {
	users, uid0 := parseAccounts(facts.Passwd.Content)

	snap := &Snapshot{
		GeneratedAt: now,

		Users:     users,
		UID0Users: uid0,

		SudoersMainPresent: hasActiveContent(facts.SudoersMain.Content),
		SudoersDFiles:      sortedSet(facts.SudoersDFiles.Files),
		SudoersDPreview:    copyStringMap(facts.SudoersDPreview),

		EtcCrontab:  facts.EtcCrontab.Content,
		CronDirs:    normalizeListings(facts.CronDirs),
		RootCrontab: facts.RootCrontab.Output,
		UserCrontab: facts.UserCrontab.Output,

		EnabledServices: facts.EnabledServices.Output,
		SystemdUnitDirs: normalizeListings(facts.SystemdUnitDirs),

		AuthorizedKeys: map[string]string{},

		SUIDFiles: sortedSet(facts.SUIDFiles.Files),

		Statuses: map[string]CategoryStatus{},
	}

	for path, fact := range facts.AuthorizedKeys {
		snap.AuthorizedKeys[path] = fact.Content
	}

	snap.Statuses[CategoryAccounts] = CategoryStatus{Status: facts.Passwd.Status}
	snap.Statuses[CategorySudoers] = CategoryStatus{
		Status:    collector.Worst(facts.SudoersMain.Status, facts.SudoersDFiles.Status),
		Truncated: facts.SudoersDFiles.Truncated,
	}
	snap.Statuses[CategoryCron] = cronStatus(facts)
	snap.Statuses[CategoryServices] = CategoryStatus{Status: facts.EnabledServices.Status}
	snap.Statuses[CategorySSHKeys] = keysStatus(facts.AuthorizedKeys)
	snap.Statuses[CategorySUID] = CategoryStatus{
		Status:    facts.SUIDFiles.Status,
		Truncated: facts.SUIDFiles.Truncated,
	}

	return snap
}

// parseAccounts parses colon-delimited passwd lines. Lines with fewer than
// three fields or a non-numeric uid are dropped silently; a malformed entry
// is not alert-worthy on its own. The uid-0 name set is derived here so it
// is always a subset of the parsed accounts.
func parseAccounts(passwd string) ([]Account, []string) {
	users := []Account{}
	uid0 := []string{}

	for _, line := range strings.Split(passwd, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 3 {
			continue
		}
		uid, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		users = append(users, Account{User: parts[0], UID: uid})
		if uid == 0 {
			uid0 = append(uid0, parts[0])
		}
	}

	return users, sortedSet(uid0)
}

// hasActiveContent reports whether text has any non-comment, non-blank line.
func hasActiveContent(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return true
		}
	}
	return false
}

func cronStatus(facts collector.Facts) CategoryStatus {
	statuses := []collector.Status{
		facts.EtcCrontab.Status,
		facts.RootCrontab.Status,
		facts.UserCrontab.Status,
	}
	truncated := false
	for _, listing := range facts.CronDirs {
		statuses = append(statuses, listing.Status)
		truncated = truncated || listing.Truncated
	}
	return CategoryStatus{Status: collector.Worst(statuses...), Truncated: truncated}
}

func keysStatus(keys map[string]collector.FileFact) CategoryStatus {
	var statuses []collector.Status
	for _, fact := range keys {
		statuses = append(statuses, fact.Status)
	}
	return CategoryStatus{Status: collector.Worst(statuses...)}
}

func normalizeListings(listings map[string]collector.ListFact) map[string][]string {
	out := make(map[string][]string, len(listings))
	for dir, listing := range listings {
		out[dir] = sortedSet(listing.Files)
	}
	return out
}

// sortedSet deduplicates and sorts, always returning a non-nil slice so the
// persisted document serializes sets as [] rather than null.
func sortedSet(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
