package report_test

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"twiniz/persistdetect/alert"
	"twiniz/persistdetect/diff"
	"twiniz/persistdetect/report"
	"twiniz/persistdetect/snapshot"
)

func sampleReport() report.Report {
	current := &snapshot.Snapshot{
		GeneratedAt: time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
	}
	d := diff.SnapshotDiff{
		UID0:            diff.Result{Added: []string{"backdoor"}, Removed: []string{}},
		SUID:            diff.Result{Added: []string{"/tmp/evil"}, Removed: []string{}},
		SudoersD:        diff.Result{Added: []string{}, Removed: []string{}},
		EnabledServices: diff.Result{Added: []string{}, Removed: []string{}},
		CronDirs:        map[string]diff.Result{},
	}
	return report.Assemble(current, alert.Classify(d), d)
}

func TestAssemble_UsesCurrentTimestampAndDiff(t *testing.T) {
	r := sampleReport()

	want := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	if !r.GeneratedAt.Equal(want) {
		t.Errorf("GeneratedAt = %v, want %v", r.GeneratedAt, want)
	}
	if !reflect.DeepEqual(r.Diff.UID0Added, []string{"backdoor"}) {
		t.Errorf("Diff.UID0Added = %v", r.Diff.UID0Added)
	}
	if !reflect.DeepEqual(r.Diff.SUIDAdded, []string{"/tmp/evil"}) {
		t.Errorf("Diff.SUIDAdded = %v", r.Diff.SUIDAdded)
	}
	if len(r.Alerts) != 2 {
		t.Errorf("got %d alerts, want 2", len(r.Alerts))
	}
}

func TestReport_JSONShape(t *testing.T) {
	data, err := json.Marshal(sampleReport())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	for _, key := range []string{"generated_at", "alerts", "diff"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	var alerts []string
	if err := json.Unmarshal(doc["alerts"], &alerts); err != nil {
		t.Fatalf("alerts are not a string list: %v", err)
	}
	if len(alerts) != 2 || !strings.HasPrefix(alerts[0], "[ALERT] ") {
		t.Errorf("alerts = %v", alerts)
	}

	var diffDoc map[string][]string
	if err := json.Unmarshal(doc["diff"], &diffDoc); err != nil {
		t.Fatalf("diff is not category lists: %v", err)
	}
	wantKeys := []string{
		"uid0_added",
		"suid_added", "suid_removed",
		"sudoers_d_added", "sudoers_d_removed",
		"enabled_services_added", "enabled_services_removed",
	}
	for _, key := range wantKeys {
		if _, ok := diffDoc[key]; !ok {
			t.Errorf("missing diff key %q", key)
		}
	}
	if len(diffDoc) != len(wantKeys) {
		t.Errorf("diff has %d keys, want %d: %v", len(diffDoc), len(wantKeys), diffDoc)
	}
}

func TestReport_JSONRoundtrip(t *testing.T) {
	orig := sampleReport()

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got report.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !got.GeneratedAt.Equal(orig.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, orig.GeneratedAt)
	}
	if !reflect.DeepEqual(got.Alerts, orig.Alerts) {
		t.Errorf("Alerts = %v, want %v", got.Alerts, orig.Alerts)
	}
	if !reflect.DeepEqual(got.Diff, orig.Diff) {
		t.Errorf("Diff = %+v, want %+v", got.Diff, orig.Diff)
	}
}

func TestText_BannerAndAlerts(t *testing.T) {
	text := report.Text(sampleReport())

	if !strings.HasPrefix(text, "Linux Persistence & Privilege Escalation Detection Report\n") {
		t.Errorf("missing banner:\n%s", text)
	}
	if !strings.Contains(text, "Generated: 2026-08-29T10:30:00Z") {
		t.Errorf("missing timestamp:\n%s", text)
	}
	if !strings.Contains(text, "[ALERT] New UID=0 user(s) detected: [backdoor]") {
		t.Errorf("missing uid0 alert:\n%s", text)
	}
}

func TestText_ShowsCollectionWarnings(t *testing.T) {
	r := sampleReport()
	r.Statuses = map[string]snapshot.CategoryStatus{
		snapshot.CategorySUID:     {Status: "timeout"},
		snapshot.CategoryAccounts: {Status: "ok"},
	}

	text := report.Text(r)
	if !strings.Contains(text, "Collection warnings:") {
		t.Errorf("missing warnings section:\n%s", text)
	}
	if !strings.Contains(text, "suid: collection status timeout") {
		t.Errorf("missing suid warning:\n%s", text)
	}
	if strings.Contains(text, "accounts: collection status ok") {
		t.Errorf("clean category listed as warning:\n%s", text)
	}
}

func TestWriteFiles_TimestampedPair(t *testing.T) {
	dir := t.TempDir()

	paths, err := report.WriteFiles(sampleReport(), dir, false)
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}

	if !strings.HasSuffix(paths.JSON, "detection_report_20260829_103000.json") {
		t.Errorf("JSON path = %s", paths.JSON)
	}
	if !strings.HasSuffix(paths.Text, "detection_report_20260829_103000.txt") {
		t.Errorf("Text path = %s", paths.Text)
	}
	if paths.PDF != "" {
		t.Errorf("unexpected PDF path: %s", paths.PDF)
	}

	for _, p := range []string{paths.JSON, paths.Text} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("report file missing: %v", err)
		}
	}

	text, err := os.ReadFile(paths.Text)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "Report files:") {
		t.Errorf("text report missing file footer:\n%s", text)
	}
}

func TestWritePDF(t *testing.T) {
	dir := t.TempDir()

	paths, err := report.WriteFiles(sampleReport(), dir, true)
	if err != nil {
		t.Fatalf("WriteFiles with pdf: %v", err)
	}

	info, err := os.Stat(paths.PDF)
	if err != nil {
		t.Fatalf("pdf missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("pdf is empty")
	}

	head := make([]byte, 5)
	f, err := os.Open(paths.PDF)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Read(head); err != nil {
		t.Fatal(err)
	}
	if string(head) != "%PDF-" {
		t.Errorf("pdf header = %q", head)
	}
}
