package baseline_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"twiniz/persistdetect/baseline"
	"twiniz/persistdetect/snapshot"
)

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline", "baseline_state.json")
	store := baseline.NewStore(path)

	snap := &snapshot.Snapshot{
		GeneratedAt: time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
		Users: []snapshot.Account{
			{User: "root", UID: 0},
			{User: "user", UID: 1000},
		},
		UID0Users:     []string{"root"},
		SudoersDFiles: []string{"/etc/sudoers.d/admins"},
		SudoersDPreview: map[string]string{
			"/etc/sudoers.d/admins": "%admin ALL=(ALL) ALL",
		},
		CronDirs: map[string][]string{
			"/etc/cron.d": {"/etc/cron.d/logrotate"},
		},
		EnabledServices: "sshd.service enabled\ncron.service enabled",
		AuthorizedKeys:  map[string]string{"/root/.ssh/authorized_keys": ""},
		SUIDFiles:       []string{"/usr/bin/passwd", "/usr/bin/sudo"},
	}

	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("roundtrip mismatch:\ngot  %+v\nwant %+v", got, snap)
	}
}

func TestStore_LoadMissingBaseline(t *testing.T) {
	store := baseline.NewStore(filepath.Join(t.TempDir(), "missing.json"))

	_, err := store.Load()
	if err == nil {
		t.Fatal("Load of missing baseline succeeded")
	}
	if !errors.Is(err, baseline.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline_state.json")
	store := baseline.NewStore(path)

	first := &snapshot.Snapshot{UID0Users: []string{"root"}}
	second := &snapshot.Snapshot{UID0Users: []string{"root", "toor"}}

	if err := store.Save(first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got.UID0Users, second.UID0Users) {
		t.Errorf("UID0Users = %v, want %v", got.UID0Users, second.UID0Users)
	}
}
