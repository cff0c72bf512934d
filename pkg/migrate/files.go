package migrate

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/phonedex-backend/pkg/migrate/migrations"
	"github.com/angelmondragon/phonedex-backend/pkg/slug"
)

const versionLayout = "20060102150405"

var fileNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

const fileTemplate = `-- %s
-- +goose Up
-- +goose StatementBegin
SELECT 1;
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
SELECT 1;
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<name>.sql and returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	base := strings.ReplaceAll(slug.Make(name), "-", "_")
	if base == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	fullpath := filepath.Join(dir, time.Now().UTC().Format(versionLayout)+"_"+base+".sql")
	f, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, fileTemplate, strings.TrimSpace(name)); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

// ValidateDir checks the migrations in an on-disk directory.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return Validate(os.DirFS(dir))
}

// ValidateEmbedded checks the migrations compiled into the binary.
func ValidateEmbedded() error {
	return Validate(migrations.FS)
}

// Validate checks file naming, unique versions and the goose annotations of
// every .sql file at the root of fsys.
func Validate(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	seen := make(map[string]string, len(names))
	for _, name := range names {
		m := fileNameRe.FindStringSubmatch(path.Base(name))
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if _, err := time.Parse(versionLayout, m[1]); err != nil {
			return fmt.Errorf("migration %q: version is not a timestamp", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		f, err := fsys.Open(name)
		if err != nil {
			return fmt.Errorf("open %q: %w", name, err)
		}
		err = checkAnnotations(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}
	return nil
}

// checkAnnotations requires an Up section before a Down section and balanced
// StatementBegin/StatementEnd markers.
func checkAnnotations(r fs.File) error {
	var up, down bool
	open := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "-- +goose") {
			continue
		}
		switch strings.TrimSpace(strings.TrimPrefix(line, "-- +goose")) {
		case "Up":
			up = true
		case "Down":
			if !up {
				return fmt.Errorf("goose Down section appears before Up")
			}
			if open != 0 {
				return fmt.Errorf("unterminated StatementBegin in Up section")
			}
			down = true
		case "StatementBegin":
			open++
			if open > 1 {
				return fmt.Errorf("nested StatementBegin")
			}
		case "StatementEnd":
			open--
			if open < 0 {
				return fmt.Errorf("unmatched StatementEnd")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	switch {
	case !up:
		return fmt.Errorf(`missing "-- +goose Up"`)
	case !down:
		return fmt.Errorf(`missing "-- +goose Down"`)
	case open != 0:
		return fmt.Errorf("unterminated StatementBegin")
	}
	return nil
}
