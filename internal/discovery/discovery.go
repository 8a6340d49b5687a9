// Package discovery locates input workbooks under a root directory.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// workbookPatterns are matched in order against paths relative to the
// root. Temporary Office lock files (~$) are never returned.
var workbookPatterns = []string{
	"**/*.xlsx",
	"**/*.xlsm",
}

// FindWorkbooks returns all workbook paths under root, joined with
// root and sorted for deterministic batch order.
func FindWorkbooks(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("workbook root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workbook root %s is not a directory", root)
	}

	seen := make(map[string]bool)
	var found []string
	fsys := os.DirFS(root)
	for _, pattern := range workbookPatterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("matching %s: %w", pattern, err)
		}
		for _, m := range matches {
			if isLockFile(m) || seen[m] {
				continue
			}
			seen[m] = true
			found = append(found, filepath.Join(root, m))
		}
	}

	sort.Strings(found)
	return found, nil
}

// MatchesWorkbook reports whether a single path looks like an input
// workbook, using the same patterns as FindWorkbooks.
func MatchesWorkbook(path string) bool {
	if isLockFile(path) {
		return false
	}
	for _, pattern := range workbookPatterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func isLockFile(path string) bool {
	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}
	return strings.HasPrefix(base, "~$")
}
