// Package collector gathers raw host facts within bounded time and size
// budgets. Every call is best-effort: failures degrade to empty output and
// an explicit status, never to an error that would abort a run.
package collector

// Status records how a collection call went. An empty category with
// StatusOK legitimately had nothing to report; the same category with
// StatusTimeout or StatusError means the collector failed and the emptiness
// proves nothing.
type Status string

const (
	StatusOK      Status = "ok"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// Worst collapses several statuses into the most severe one, with error
// outranking timeout outranking ok.
func Worst(statuses ...Status) Status {
	worst := StatusOK
	for _, s := range statuses {
		switch s {
		case StatusError:
			return StatusError
		case StatusTimeout:
			worst = StatusTimeout
		}
	}
	return worst
}

// FileFact is the outcome of a capped file read.
type FileFact struct {
	Content string
	Status  Status
}

// ListFact is the outcome of a bounded directory enumeration. Truncated is
// set when the listing hit its cap, so a partial set is never mistaken for
// a complete one.
type ListFact struct {
	Files     []string
	Status    Status
	Truncated bool
}

// CmdResult is the outcome of an external command invocation. ExitCode is
// only meaningful for StatusError: it lets callers tell an expected
// non-zero exit (crontab with no crontab to list) from a real failure.
type CmdResult struct {
	Output   string
	Status   Status
	ExitCode int
}
