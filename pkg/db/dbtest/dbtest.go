// Package dbtest opens throwaway sqlite databases carrying the catalog schema.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const schema = `
CREATE TABLE brands (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  logo_url TEXT,
  website TEXT,
  country TEXT,
  founded_year INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_verified INTEGER NOT NULL DEFAULT 0,
  phone_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME,
  CONSTRAINT brands_name_key UNIQUE (name),
  CONSTRAINT brands_slug_key UNIQUE (slug)
);
CREATE TABLE phones (
  id TEXT PRIMARY KEY,
  brand_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  model TEXT,
  series TEXT,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'draft',
  launch_price NUMERIC,
  current_price NUMERIC,
  currency TEXT NOT NULL DEFAULT 'USD',
  release_date DATETIME,
  thumbnail_url TEXT,
  meta_title TEXT,
  meta_description TEXT,
  view_count INTEGER NOT NULL DEFAULT 0,
  like_count INTEGER NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  average_rating REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME,
  CONSTRAINT phones_slug_key UNIQUE (slug)
);
CREATE TABLE specifications (
  id TEXT PRIMARY KEY,
  phone_id TEXT NOT NULL,
  category TEXT NOT NULL,
  key TEXT NOT NULL,
  display_name TEXT NOT NULL,
  value TEXT NOT NULL,
  unit TEXT,
  is_highlight INTEGER NOT NULL DEFAULT 0,
  priority INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE phone_colors (
  id TEXT PRIMARY KEY,
  phone_id TEXT NOT NULL,
  name TEXT NOT NULL,
  hex_code TEXT,
  image_url TEXT,
  is_available INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE phone_variants (
  id TEXT PRIMARY KEY,
  phone_id TEXT NOT NULL,
  storage TEXT NOT NULL,
  ram TEXT,
  price NUMERIC,
  is_available INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE gallery_images (
  id TEXT PRIMARY KEY,
  phone_id TEXT NOT NULL,
  url TEXT NOT NULL,
  alt_text TEXT,
  position INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  avatar_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT users_email_key UNIQUE (email)
);
CREATE TABLE reviews (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  phone_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  title TEXT,
  content TEXT,
  design_rating INTEGER,
  performance_rating INTEGER,
  camera_rating INTEGER,
  battery_rating INTEGER,
  value_rating INTEGER,
  pros TEXT,
  cons TEXT,
  helpful_count INTEGER NOT NULL DEFAULT 0,
  not_helpful_count INTEGER NOT NULL DEFAULT 0,
  is_verified INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT reviews_user_phone_key UNIQUE (user_id, phone_id)
);
CREATE TABLE comments (
  id TEXT PRIMARY KEY,
  phone_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  parent_id TEXT,
  content TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'published',
  like_count INTEGER NOT NULL DEFAULT 0,
  report_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  phone_id TEXT NOT NULL,
  notes TEXT,
  priority TEXT NOT NULL DEFAULT 'medium',
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT wishlist_items_user_phone_key UNIQUE (user_id, phone_id)
);
CREATE TABLE page_views (
  id TEXT PRIMARY KEY,
  phone_id TEXT NOT NULL,
  path TEXT NOT NULL,
  ip_address TEXT,
  user_agent TEXT,
  referrer TEXT,
  user_id TEXT,
  created_at DATETIME
);
CREATE TABLE search_logs (
  id TEXT PRIMARY KEY,
  query TEXT NOT NULL,
  result_count INTEGER NOT NULL DEFAULT 0,
  ip_address TEXT,
  created_at DATETIME
);
`

// Open returns a fresh in-memory database with every table created. The pool
// is pinned to one connection, so code under test must run transactional
// queries on the transaction handle only.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.Exec(schema).Error)
	return conn
}
