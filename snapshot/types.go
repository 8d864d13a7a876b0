package snapshot

import (
	"time"

	"twiniz/persistdetect/collector"
)

// Category names used to key per-category collection statuses.
const (
	CategoryAccounts = "accounts"
	CategorySudoers  = "sudoers"
	CategoryCron     = "cron"
	CategoryServices = "services"
	CategorySSHKeys  = "ssh_keys"
	CategorySUID     = "suid"
)

// Account is a single passwd entry reduced to what detection needs.
type Account struct {
	User string `json:"user"`
	UID  int    `json:"uid"`
}

// CategoryStatus records how a category's collection went, plus whether a
// bounded enumeration hit its cap.
type CategoryStatus struct {
	Status    collector.Status `json:"status"`
	Truncated bool             `json:"truncated,omitempty"`
}

// Snapshot is a normalized, point-in-time view of host security-relevant
// state. Set-valued fields are deduplicated and sorted; a Snapshot is
// immutable once built and diffing never mutates it.
//
// The JSON form of this struct is the baseline persistence format: a single
// document keyed by category, readable by any later run.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`

	Users     []Account `json:"users"`
	UID0Users []string  `json:"uid0_users"`

	SudoersMainPresent bool              `json:"sudoers_main_present"`
	SudoersDFiles      []string          `json:"sudoers_d_files"`
	SudoersDPreview    map[string]string `json:"sudoers_d_preview"`

	EtcCrontab  string              `json:"etc_crontab"`
	CronDirs    map[string][]string `json:"cron_dirs"`
	RootCrontab string              `json:"root_crontab"`
	UserCrontab string              `json:"user_crontab"`

	// EnabledServices is the raw enabled-service listing; it is diffed as a
	// set of text lines, not parsed unit names.
	EnabledServices string `json:"enabled_services"`

	SystemdUnitDirs map[string][]string `json:"system_dirs"`

	// AuthorizedKeys and the preview/crontab text fields are informational
	// context for an analyst reading the baseline; they are never diffed.
	AuthorizedKeys map[string]string `json:"authorized_keys"`

	SUIDFiles []string `json:"suid_files"`

	Statuses map[string]CategoryStatus `json:"collection_status,omitempty"`
}
