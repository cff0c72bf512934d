package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/phonedex-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
	require.NoError(t, migrate.ValidateEmbedded())
}

func TestValidateRejectsBrokenFiles(t *testing.T) {
	const good = "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n"
	cases := map[string]fstest.MapFS{
		"bad name": {
			"create_things.sql": {Data: []byte(good)},
		},
		"not a timestamp": {
			"20261399000000_things.sql": {Data: []byte(good)},
		},
		"missing down": {
			"20260105120000_things.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
		},
		"down before up": {
			"20260105120000_things.sql": {Data: []byte("-- +goose Down\nSELECT 1;\n-- +goose Up\nSELECT 1;\n")},
		},
		"unterminated statement": {
			"20260105120000_things.sql": {Data: []byte("-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, migrate.Validate(fsys))
		})
	}
}

func TestValidateAcceptsEmptyAndIgnoresOtherFiles(t *testing.T) {
	require.NoError(t, migrate.Validate(fstest.MapFS{}))
	require.NoError(t, migrate.Validate(fstest.MapFS{"README.md": {Data: []byte("notes")}}))
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "embedded", migrate.Source{}.String())
	assert.True(t, migrate.Source{}.Embedded())
	assert.Equal(t, "db/migrations", migrate.Source{Dir: "db/migrations"}.String())
}

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "migration %s not found", suffix)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestCatalogMigrationDeclaresUniqueKeys(t *testing.T) {
	content := readMigration(t, "create_catalog_tables")
	for _, want := range []string{
		"CONSTRAINT brands_name_key UNIQUE (name)",
		"CONSTRAINT brands_slug_key UNIQUE (slug)",
		"CONSTRAINT phones_slug_key UNIQUE (slug)",
		"status phone_status NOT NULL DEFAULT 'draft'",
		"deleted_at timestamptz",
	} {
		assert.Contains(t, content, want)
	}
}

func TestReviewAndWishlistUniquePerUserPhone(t *testing.T) {
	reviews := readMigration(t, "create_users_reviews_comments")
	assert.Contains(t, reviews, "CONSTRAINT reviews_user_phone_key UNIQUE (user_id, phone_id)")
	assert.Contains(t, reviews, "CHECK (rating BETWEEN 1 AND 5)")
	assert.Contains(t, reviews, "CONSTRAINT users_email_key UNIQUE (email)")

	wishlist := readMigration(t, "create_wishlist_items")
	assert.Contains(t, wishlist, "CONSTRAINT wishlist_items_user_phone_key UNIQUE (user_id, phone_id)")
}

func TestEnumMigrationMatchesEnumPackage(t *testing.T) {
	content := readMigration(t, "create_enums")
	for _, want := range []string{
		"('draft', 'active', 'upcoming', 'discontinued')",
		"('pending', 'published', 'hidden')",
		"('low', 'medium', 'high')",
		"('user', 'editor', 'admin')",
	} {
		assert.True(t, strings.Contains(content, want), "missing %s", want)
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Phone Tags")
	require.NoError(t, err)
	assert.Regexp(t, `\d{14}_add_phone_tags\.sql$`, path)
	require.NoError(t, migrate.ValidateDir(dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "-- Add Phone Tags\n"))
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	_, err := migrate.CreateSQLMigration(t.TempDir(), "  ??  ")
	assert.Error(t, err)
}
