package collector

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"
)

// ReadFileCapped reads at most maxBytes of a file. A missing file is a fact
// (empty content, StatusOK), not a failure; any other read error degrades
// to empty content with StatusError. Truncation never splits a multi-byte
// UTF-8 sequence.
func ReadFileCapped(path string, maxBytes int) FileFact {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileFact{Status: StatusOK}
		}
		return FileFact{Status: StatusError}
	}

	return FileFact{
		Content: CapString(string(data), maxBytes),
		Status:  StatusOK,
	}
}

// CapString truncates s to at most maxBytes without cutting through a
// UTF-8 sequence. Invalid input bytes are kept as-is; only the cut point
// is adjusted.
func CapString(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ListDir enumerates regular files under root recursively, bounded at
// maxEntries. The returned paths are absolute and sorted. A missing root
// yields an empty, non-truncated listing; unreadable subtrees are skipped.
func ListDir(root string, maxEntries int) ListFact {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return ListFact{Status: StatusOK}
		}
		return ListFact{Status: StatusError}
	}

	var files []string
	truncated := false

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// An unreadable root is a failed collection; an unreadable
			// subtree is skipped so a partial listing beats an empty
			// category.
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(files) >= maxEntries {
			truncated = true
			return fs.SkipAll
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return ListFact{Status: StatusError}
	}

	sort.Strings(files)
	return ListFact{Files: files, Status: StatusOK, Truncated: truncated}
}
