package diff_test

import (
	"reflect"
	"testing"

	"twiniz/persistdetect/diff"
	"twiniz/persistdetect/snapshot"
)

func TestStrings_AddedRemoved(t *testing.T) {
	tests := []struct {
		name        string
		baseline    []string
		current     []string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name:        "disjoint change",
			baseline:    []string{"a", "b"},
			current:     []string{"b", "c"},
			wantAdded:   []string{"c"},
			wantRemoved: []string{"a"},
		},
		{
			name:        "pure addition",
			baseline:    []string{"root"},
			current:     []string{"root", "backdoor"},
			wantAdded:   []string{"backdoor"},
			wantRemoved: []string{},
		},
		{
			name:        "pure removal",
			baseline:    []string{"/etc/sudoers.d/admins"},
			current:     nil,
			wantAdded:   []string{},
			wantRemoved: []string{"/etc/sudoers.d/admins"},
		},
		{
			name:        "both empty",
			baseline:    nil,
			current:     nil,
			wantAdded:   []string{},
			wantRemoved: []string{},
		},
		{
			name:        "duplicates and order ignored",
			baseline:    []string{"b", "a", "a"},
			current:     []string{"a", "b", "b", "c", "c"},
			wantAdded:   []string{"c"},
			wantRemoved: []string{},
		},
		{
			name:        "output sorted",
			baseline:    []string{},
			current:     []string{"z", "a", "m"},
			wantAdded:   []string{"a", "m", "z"},
			wantRemoved: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := diff.Strings(tc.baseline, tc.current)
			if !reflect.DeepEqual(got.Added, tc.wantAdded) {
				t.Errorf("Added = %v, want %v", got.Added, tc.wantAdded)
			}
			if !reflect.DeepEqual(got.Removed, tc.wantRemoved) {
				t.Errorf("Removed = %v, want %v", got.Removed, tc.wantRemoved)
			}
		})
	}
}

func TestStrings_SwapInvariant(t *testing.T) {
	sets := [][]string{
		nil,
		{},
		{"a"},
		{"a", "b", "c"},
		{"x", "y"},
		{"a", "x"},
	}

	for _, a := range sets {
		for _, b := range sets {
			forward := diff.Strings(a, b)
			backward := diff.Strings(b, a)
			if !reflect.DeepEqual(forward.Added, backward.Removed) {
				t.Errorf("diff(%v,%v).Added = %v, want diff(b,a).Removed = %v",
					a, b, forward.Added, backward.Removed)
			}
			if !reflect.DeepEqual(forward.Removed, backward.Added) {
				t.Errorf("diff(%v,%v).Removed = %v, want diff(b,a).Added = %v",
					a, b, forward.Removed, backward.Added)
			}
		}
	}
}

func TestStrings_Idempotence(t *testing.T) {
	sets := [][]string{
		nil,
		{},
		{"root"},
		{"/usr/bin/sudo", "/usr/bin/passwd", "/bin/su"},
	}

	for _, s := range sets {
		got := diff.Strings(s, s)
		if !got.Empty() {
			t.Errorf("diff(A,A) for %v = %+v, want empty", s, got)
		}
	}
}

func TestStrings_DoesNotMutateInputs(t *testing.T) {
	baseline := []string{"c", "a", "b"}
	current := []string{"z", "a"}

	diff.Strings(baseline, current)

	if !reflect.DeepEqual(baseline, []string{"c", "a", "b"}) {
		t.Errorf("baseline mutated: %v", baseline)
	}
	if !reflect.DeepEqual(current, []string{"z", "a"}) {
		t.Errorf("current mutated: %v", current)
	}
}

func TestLines_TextualGranularity(t *testing.T) {
	baseline := "sshd.service enabled\ncron.service enabled\n"
	current := "sshd.service  enabled\ncron.service enabled\nevil.service enabled\n"

	got := diff.Lines(baseline, current)

	// The reformatted sshd line counts as one removal and one addition:
	// line-set comparison cannot tell formatting drift from real change.
	wantAdded := []string{"evil.service enabled", "sshd.service  enabled"}
	wantRemoved := []string{"sshd.service enabled"}
	if !reflect.DeepEqual(got.Added, wantAdded) {
		t.Errorf("Added = %v, want %v", got.Added, wantAdded)
	}
	if !reflect.DeepEqual(got.Removed, wantRemoved) {
		t.Errorf("Removed = %v, want %v", got.Removed, wantRemoved)
	}
}

func TestCompare_PerCategory(t *testing.T) {
	base := &snapshot.Snapshot{
		UID0Users:       []string{"root"},
		SUIDFiles:       []string{"/usr/bin/sudo"},
		SudoersDFiles:   []string{"/etc/sudoers.d/admins"},
		EnabledServices: "sshd.service enabled",
		CronDirs: map[string][]string{
			"/etc/cron.d":     {"/etc/cron.d/logrotate"},
			"/etc/cron.daily": {},
		},
	}
	curr := &snapshot.Snapshot{
		UID0Users:       []string{"backdoor", "root"},
		SUIDFiles:       []string{"/tmp/evil", "/usr/bin/sudo"},
		SudoersDFiles:   []string{},
		EnabledServices: "sshd.service enabled\nminer.service enabled",
		CronDirs: map[string][]string{
			"/etc/cron.d":     {"/etc/cron.d/logrotate", "/etc/cron.d/backdoor"},
			"/etc/cron.daily": {},
		},
	}

	d := diff.Compare(base, curr)

	if !reflect.DeepEqual(d.UID0.Added, []string{"backdoor"}) {
		t.Errorf("UID0.Added = %v", d.UID0.Added)
	}
	if !reflect.DeepEqual(d.SUID.Added, []string{"/tmp/evil"}) {
		t.Errorf("SUID.Added = %v", d.SUID.Added)
	}
	if !reflect.DeepEqual(d.SudoersD.Removed, []string{"/etc/sudoers.d/admins"}) {
		t.Errorf("SudoersD.Removed = %v", d.SudoersD.Removed)
	}
	if !reflect.DeepEqual(d.EnabledServices.Added, []string{"miner.service enabled"}) {
		t.Errorf("EnabledServices.Added = %v", d.EnabledServices.Added)
	}
	if !reflect.DeepEqual(d.CronDirs["/etc/cron.d"].Added, []string{"/etc/cron.d/backdoor"}) {
		t.Errorf("CronDirs[/etc/cron.d].Added = %v", d.CronDirs["/etc/cron.d"].Added)
	}
	if !d.CronDirs["/etc/cron.daily"].Empty() {
		t.Errorf("CronDirs[/etc/cron.daily] = %+v, want empty", d.CronDirs["/etc/cron.daily"])
	}
}

func TestCompare_IdenticalSnapshotsEmpty(t *testing.T) {
	snap := &snapshot.Snapshot{
		UID0Users:       []string{"root"},
		SUIDFiles:       []string{"/usr/bin/sudo", "/usr/bin/passwd"},
		SudoersDFiles:   []string{"/etc/sudoers.d/admins"},
		EnabledServices: "sshd.service enabled\ncron.service enabled",
		CronDirs: map[string][]string{
			"/etc/cron.d": {"/etc/cron.d/logrotate"},
		},
	}

	if d := diff.Compare(snap, snap); !d.Empty() {
		t.Errorf("Compare(A,A) = %+v, want empty", d)
	}
}

func TestCompare_CronDirOnlyInOneSnapshot(t *testing.T) {
	base := &snapshot.Snapshot{CronDirs: map[string][]string{}}
	curr := &snapshot.Snapshot{
		CronDirs: map[string][]string{
			"/etc/cron.hourly": {"/etc/cron.hourly/job"},
		},
	}

	d := diff.Compare(base, curr)
	if !reflect.DeepEqual(d.CronDirs["/etc/cron.hourly"].Added, []string{"/etc/cron.hourly/job"}) {
		t.Errorf("CronDirs = %+v", d.CronDirs)
	}
}
