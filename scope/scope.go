// Package scope defines which parts of the host a collection run looks at:
// the cron and binary directories to enumerate, the key files to read, and
// the caps that bound enumeration cost.
package scope

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_scope.yaml
var defaultScopeYAML []byte

// Profile describes the collection surface for one host.
type Profile struct {
	Version string `yaml:"version"`

	SudoersFile      string `yaml:"sudoers_file"`
	SudoersDropinDir string `yaml:"sudoers_dropin_dir"`

	CronDirs           []string `yaml:"cron_dirs"`
	SUIDDirs           []string `yaml:"suid_dirs"`
	AuthorizedKeyPaths []string `yaml:"authorized_key_paths"`
	SystemdUnitDirs    []string `yaml:"systemd_unit_dirs"`

	// MaxFilesPerDir bounds directory enumeration; listings that hit the cap
	// are reported as truncated rather than silently partial.
	MaxFilesPerDir     int `yaml:"max_files_per_dir"`
	MaxUnitFilesPerDir int `yaml:"max_unit_files_per_dir"`

	// PreviewBytes caps sudoers.d content previews; ContentCapBytes caps
	// whole-file reads (crontab, authorized_keys).
	PreviewBytes    int `yaml:"preview_bytes"`
	ContentCapBytes int `yaml:"content_cap_bytes"`
}

// Loaded is a validated profile together with the sha256 of its source
// bytes, kept for audit trails in reports and history rows.
type Loaded struct {
	Profile Profile
	SHA256  string
	Source  string
}

// Default returns the embedded scope profile. It panics on an invalid
// embed, which only happens when the shipped default is broken.
func Default() Loaded {
	loaded, err := parse(defaultScopeYAML, "builtin")
	if err != nil {
		panic(fmt.Sprintf("embedded default scope is invalid: %v", err))
	}
	return loaded
}

// Load reads and validates a scope profile from disk.
func Load(path string) (Loaded, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("read scope profile: %w", err)
	}
	return parse(raw, path)
}

func parse(raw []byte, source string) (Loaded, error) {
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Loaded{}, fmt.Errorf("parse scope profile: %w", err)
	}
	if err := validate(p); err != nil {
		return Loaded{}, err
	}

	sum := sha256.Sum256(raw)
	return Loaded{
		Profile: p,
		SHA256:  hex.EncodeToString(sum[:]),
		Source:  source,
	}, nil
}

func validate(p Profile) error {
	if strings.TrimSpace(p.Version) == "" {
		return errors.New("scope profile: version is required")
	}
	if strings.TrimSpace(p.SudoersFile) == "" {
		return errors.New("scope profile: sudoers_file is required")
	}
	if strings.TrimSpace(p.SudoersDropinDir) == "" {
		return errors.New("scope profile: sudoers_dropin_dir is required")
	}
	if len(p.CronDirs) == 0 {
		return errors.New("scope profile: cron_dirs is empty")
	}
	if len(p.SUIDDirs) == 0 {
		return errors.New("scope profile: suid_dirs is empty")
	}

	for _, group := range [][]string{p.CronDirs, p.SUIDDirs, p.AuthorizedKeyPaths, p.SystemdUnitDirs} {
		if err := requireAbsolute(group); err != nil {
			return err
		}
	}

	if p.MaxFilesPerDir <= 0 {
		return errors.New("scope profile: max_files_per_dir must be positive")
	}
	if p.MaxUnitFilesPerDir <= 0 {
		return errors.New("scope profile: max_unit_files_per_dir must be positive")
	}
	if p.PreviewBytes <= 0 {
		return errors.New("scope profile: preview_bytes must be positive")
	}
	if p.ContentCapBytes <= 0 {
		return errors.New("scope profile: content_cap_bytes must be positive")
	}

	return nil
}

func requireAbsolute(paths []string) error {
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("scope profile: path must be absolute: %s", p)
		}
	}
	return nil
}
