package migrate

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

// Dialects lists the goose dialects every schema change must be written for.
var Dialects = []string{"postgres", "sqlite3"}

// NormalizeDialect maps CLI spellings onto goose dialect names.
func NormalizeDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql", "pg":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return dialect
	}
}

// CreateSQLMigration writes an empty goose migration under root for each
// dialect (all of Dialects when none are given):
//
//	<root>/postgres/<YYYYMMDDHHMMSS>_<name>.sql
//	<root>/sqlite/<YYYYMMDDHHMMSS>_<name>.sql
//
// The files share one version so the trees stay paired.
func CreateSQLMigration(root string, name string, dialects ...string) ([]string, error) {
	if root == "" {
		return nil, fmt.Errorf("root dir is required")
	}
	safe, err := sanitizeName(name)
	if err != nil {
		return nil, err
	}
	if len(dialects) == 0 {
		dialects = Dialects
	}

	version := time.Now().UTC().Format("20060102150405")
	filename := fmt.Sprintf("%s_%s.sql", version, safe)

	paths := make([]string, 0, len(dialects))
	for _, dialect := range dialects {
		dialect = NormalizeDialect(dialect)
		embeddedDir, err := DirFor(dialect)
		if err != nil {
			return nil, err
		}
		fullpath := filepath.Join(root, path.Base(embeddedDir), filename)
		if _, err := os.Stat(fullpath); err == nil {
			return nil, fmt.Errorf("migration already exists: %s", fullpath)
		}
		paths = append(paths, fullpath)
	}

	for i, fullpath := range paths {
		if err := os.MkdirAll(filepath.Dir(fullpath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", filepath.Dir(fullpath), err)
		}
		body := migrationTemplate(NormalizeDialect(dialects[i]), safe)
		if err := os.WriteFile(fullpath, []byte(body), 0o644); err != nil {
			return nil, fmt.Errorf("write migration %q: %w", fullpath, err)
		}
	}
	return paths, nil
}

func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("name is required")
	}
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	return safe, nil
}

func migrationTemplate(dialect, name string) string {
	// sqlite has no ALTER COLUMN; table rebuilds need to run outside a transaction.
	hint := "-- postgres: prefer TIMESTAMPTZ and BIGSERIAL"
	if dialect == "sqlite3" {
		hint = "-- sqlite: add -- +goose NO TRANSACTION above Up when rebuilding a table"
	}
	return fmt.Sprintf(`%s
-- +goose Up
-- +goose StatementBegin
-- %s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %s
-- +goose StatementEnd
`, hint, name, name)
}
