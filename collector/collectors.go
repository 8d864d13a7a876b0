package collector

import (
	"context"
	"strings"
	"time"

	"twiniz/persistdetect/scope"
)

// Options bounds a collection pass. Timeouts apply per external command,
// not to the pass as a whole.
type Options struct {
	Profile scope.Profile

	CrontabTimeout  time.Duration
	ServiceTimeout  time.Duration
	SUIDScanTimeout time.Duration
}

// Facts is the raw, unnormalized output of one collection pass. Every field
// is independently best-effort; the snapshot builder turns this into a
// canonical Snapshot.
type Facts struct {
	Passwd FileFact

	SudoersMain     FileFact
	SudoersDFiles   ListFact
	SudoersDPreview map[string]string

	EtcCrontab  FileFact
	CronDirs    map[string]ListFact
	RootCrontab CmdResult
	UserCrontab CmdResult

	EnabledServices CmdResult
	SystemdUnitDirs map[string]ListFact

	AuthorizedKeys map[string]FileFact

	SUIDFiles ListFact
}

// Collect gathers every category of host facts according to the scope
// profile. It never fails: each category degrades independently and the
// statuses travel with the data.
func Collect(ctx context.Context, opts Options) Facts {
	p := opts.Profile

	facts := Facts{
		Passwd:      ReadFileCapped("/etc/passwd", p.ContentCapBytes),
		SudoersMain: ReadFileCapped(p.SudoersFile, p.ContentCapBytes),
		EtcCrontab:  ReadFileCapped("/etc/crontab", p.ContentCapBytes),

		SudoersDFiles:   ListDir(p.SudoersDropinDir, p.MaxFilesPerDir),
		SudoersDPreview: map[string]string{},

		CronDirs:        map[string]ListFact{},
		SystemdUnitDirs: map[string]ListFact{},
		AuthorizedKeys:  map[string]FileFact{},
	}

	for _, f := range facts.SudoersDFiles.Files {
		facts.SudoersDPreview[f] = ReadFileCapped(f, p.PreviewBytes).Content
	}

	for _, dir := range p.CronDirs {
		facts.CronDirs[dir] = ListDir(dir, p.MaxFilesPerDir)
	}

	// User crontabs do not live under the cron directories; ask the crontab
	// command for them.
	facts.RootCrontab = NormalizeCrontab(RunCommand(ctx, opts.CrontabTimeout,
		"crontab", "-l", "-u", "root"))
	facts.UserCrontab = NormalizeCrontab(RunCommand(ctx, opts.CrontabTimeout,
		"crontab", "-l"))

	facts.EnabledServices = RunCommand(ctx, opts.ServiceTimeout,
		"systemctl", "list-unit-files", "--type=service", "--state=enabled", "--no-pager")

	for _, dir := range p.SystemdUnitDirs {
		facts.SystemdUnitDirs[dir] = ListDir(dir, p.MaxUnitFilesPerDir)
	}

	for _, path := range p.AuthorizedKeyPaths {
		facts.AuthorizedKeys[path] = ReadFileCapped(path, p.ContentCapBytes)
	}

	facts.SUIDFiles = collectSUID(ctx, opts)

	return facts
}

// NormalizeCrontab reinterprets a crontab listing result: crontab exits 1
// with no stdout when the user simply has no crontab, which is an empty
// fact, not a collection failure. Any other failure stands.
func NormalizeCrontab(res CmdResult) CmdResult {
	if res.Status == StatusError && res.ExitCode == 1 && res.Output == "" {
		return CmdResult{Status: StatusOK}
	}
	return res
}

// collectSUID scans the profile's binary directories for setuid regular
// files, one bounded find invocation per directory. A directory that times
// out contributes nothing; the others still count.
func collectSUID(ctx context.Context, opts Options) ListFact {
	var files []string
	var statuses []Status

	for _, dir := range opts.Profile.SUIDDirs {
		res := RunCommand(ctx, opts.SUIDScanTimeout,
			"find", dir, "-perm", "-4000", "-type", "f")
		statuses = append(statuses, res.Status)
		if res.Status != StatusOK || res.Output == "" {
			continue
		}
		for _, line := range strings.Split(res.Output, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				files = append(files, line)
			}
		}
	}

	return ListFact{Files: files, Status: Worst(statuses...)}
}
