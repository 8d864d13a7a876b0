package diff

import (
	"sort"

	"twiniz/persistdetect/snapshot"
)

// SnapshotDiff holds every diffed category between a baseline and a current
// snapshot. Informational snapshot fields (previews, authorized keys,
// crontab text) are not represented here because they are not diffed.
type SnapshotDiff struct {
	UID0            Result
	SUID            Result
	SudoersD        Result
	EnabledServices Result

	// CronDirs maps each cron directory to its own delta.
	CronDirs map[string]Result
}

// Empty reports whether no category changed.
func (d SnapshotDiff) Empty() bool {
	if !d.UID0.Empty() || !d.SUID.Empty() || !d.SudoersD.Empty() || !d.EnabledServices.Empty() {
		return false
	}
	for _, r := range d.CronDirs {
		if !r.Empty() {
			return false
		}
	}
	return true
}

// CronDirNames returns the diffed cron directories in sorted order, for
// deterministic iteration.
func (d SnapshotDiff) CronDirNames() []string {
	names := make([]string, 0, len(d.CronDirs))
	for name := range d.CronDirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compare diffs every category of two snapshots independently. It is pure:
// stateless, side-effect free, and safe to call concurrently over
// independent snapshot pairs.
func Compare(baseline, current *snapshot.Snapshot) SnapshotDiff {
	d := SnapshotDiff{
		UID0:            Strings(baseline.UID0Users, current.UID0Users),
		SUID:            Strings(baseline.SUIDFiles, current.SUIDFiles),
		SudoersD:        Strings(baseline.SudoersDFiles, current.SudoersDFiles),
		EnabledServices: Lines(baseline.EnabledServices, current.EnabledServices),
		CronDirs:        map[string]Result{},
	}

	for _, dir := range unionKeys(baseline.CronDirs, current.CronDirs) {
		d.CronDirs[dir] = Strings(baseline.CronDirs[dir], current.CronDirs[dir])
	}

	return d
}

func unionKeys(a, b map[string][]string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var keys []string
	for k := range a {
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
