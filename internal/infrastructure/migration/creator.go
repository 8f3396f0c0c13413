package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// NewFiles creates an empty up/down pair named <next version>_<name> in dir
// and returns their paths. Versions are sequential, six digits wide.
func NewFiles(dir, name string) (up, down string, err error) {
	base := sanitizeName(name)
	if base == "" {
		return "", "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create migrations directory: %w", err)
	}
	existing, err := List(os.DirFS(dir))
	if err != nil {
		return "", "", err
	}

	prefix := fmt.Sprintf("%06d_%s", len(existing)+1, base)
	up = filepath.Join(dir, prefix+".up.sql")
	down = filepath.Join(dir, prefix+".down.sql")
	for _, p := range []string{up, down} {
		if err := os.WriteFile(p, []byte("-- "+base+"\n"), 0o644); err != nil {
			return "", "", fmt.Errorf("failed to write %s: %w", p, err)
		}
	}
	return up, down, nil
}

// List returns the migration base names found in fsys, sorted by version
func List(fsys fs.FS) ([]string, error) {
	matches, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}

func sanitizeName(name string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
}
