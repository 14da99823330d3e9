package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	fileNameRe   = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	unsafeNameRe = regexp.MustCompile(`[^a-z0-9]+`)
)

const sqlTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s up
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- %[1]s down
-- +goose StatementEnd
`

// Create writes an empty goose migration named <UTC timestamp>_<slug>.sql into dir.
func Create(dir, name string, now time.Time) (string, error) {
	slug := strings.Trim(unsafeNameRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", now.UTC().Format("20060102150405"), slug))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, sqlTemplate, slug); err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return path, nil
}

// Validate checks file naming, version uniqueness and goose section markers.
func Validate(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no migrations found")
	}
	versions := make(map[string]string, len(names))
	for _, name := range names {
		m := fileNameRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, dup := versions[m[1]]; dup {
			return fmt.Errorf("version %s used by both %q and %q", m[1], prev, name)
		}
		versions[m[1]] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(body), marker) {
				return fmt.Errorf("%s is missing %q", name, marker)
			}
		}
	}
	return nil
}
