// Package testdb opens throwaway SQLite databases carrying the equilog schema
// for repository and composition tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var counter atomic.Int64

// schema mirrors pkg/migrate/migrations in SQLite dialect.
var schema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone_number TEXT,
		emergency_contact TEXT,
		core_information TEXT,
		description TEXT,
		profile_picture TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE stables (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		county TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		post_code TEXT NOT NULL DEFAULT '',
		box_count INTEGER NOT NULL DEFAULT 0,
		profile_picture TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE user_stables (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		stable_id INTEGER NOT NULL REFERENCES stables(id) ON DELETE CASCADE,
		role INTEGER NOT NULL CHECK (role IN (0, 1, 2)),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX ux_user_stables_user_stable ON user_stables (user_id, stable_id)`,
	`CREATE TABLE stable_locations (
		post_code TEXT PRIMARY KEY,
		city TEXT NOT NULL,
		municipality_name TEXT NOT NULL,
		county_name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL
	)`,
	`CREATE TABLE horses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		color TEXT,
		breed TEXT,
		birth_date DATETIME,
		description TEXT,
		profile_picture TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE stable_horses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stable_id INTEGER NOT NULL REFERENCES stables(id) ON DELETE CASCADE,
		horse_id INTEGER NOT NULL REFERENCES horses(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE user_horses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		horse_id INTEGER NOT NULL REFERENCES horses(id) ON DELETE CASCADE,
		user_role INTEGER NOT NULL CHECK (user_role IN (0, 1, 2)),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE stable_posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stable_id INTEGER NOT NULL REFERENCES stables(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		date DATETIME NOT NULL,
		is_pinned BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		comment_date DATETIME NOT NULL,
		content TEXT NOT NULL
	)`,
	`CREATE TABLE user_comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		comment_id INTEGER NOT NULL REFERENCES comments(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE stable_post_comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stable_post_id INTEGER NOT NULL REFERENCES stable_posts(id) ON DELETE CASCADE,
		comment_id INTEGER NOT NULL REFERENCES comments(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE calendar_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stable_id INTEGER NOT NULL REFERENCES stables(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		start_date_time DATETIME NOT NULL,
		end_date_time DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE stable_invites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		stable_id INTEGER NOT NULL REFERENCES stables(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX ux_stable_invites_user_stable ON stable_invites (user_id, stable_id)`,
	`CREATE TABLE stable_join_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		stable_id INTEGER NOT NULL REFERENCES stables(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX ux_stable_join_requests_user_stable ON stable_join_requests (user_id, stable_id)`,
	`CREATE TABLE password_reset_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expiration_date DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Open returns a fresh in-memory database with foreign keys enforced.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("equilog_%s_%d", sanitize(t.Name()), counter.Add(1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v\n%s", err, stmt)
		}
	}
	return conn
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

// SeedUser inserts a user with a unique email.
func SeedUser(t *testing.T, conn *gorm.DB, first, last string) models.User {
	t.Helper()
	user := models.User{
		FirstName:    first,
		LastName:     last,
		Email:        fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), counter.Add(1)),
		PasswordHash: "hash",
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedStable inserts a stable.
func SeedStable(t *testing.T, conn *gorm.DB, name string) models.Stable {
	t.Helper()
	stable := models.Stable{Name: name, County: "Uppsala", Address: "Stallvägen 1", PostCode: "75236"}
	if err := conn.Create(&stable).Error; err != nil {
		t.Fatalf("seed stable: %v", err)
	}
	return stable
}

// SeedMembership links a user to a stable with role.
func SeedMembership(t *testing.T, conn *gorm.DB, userID, stableID int, role enums.StableRole) models.UserStable {
	t.Helper()
	row := models.UserStable{UserID: userID, StableID: stableID, Role: role}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	return row
}

// SeedStablePost inserts a post on a stable board.
func SeedStablePost(t *testing.T, conn *gorm.DB, stableID, userID int, title string) models.StablePost {
	t.Helper()
	post := models.StablePost{StableID: stableID, UserID: userID, Title: title, Content: title, Date: time.Now().UTC()}
	if err := conn.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

// Count returns the number of rows in table matching the optional where clause.
func Count(t *testing.T, conn *gorm.DB, table string, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := conn.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
