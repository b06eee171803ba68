package store

import (
	"database/sql"

	"github.com/jinzhu/gorm"
)

type Store struct {
	Db              *gorm.DB `inject:""`
	StringGenerator interface {
		GenerateUuid() string
	} `inject:""`
}

func (s *Store) Tx() *gorm.DB {
	return s.Db.Begin()
}

func (s *Store) dbOrTx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.Db
}

func DbNullString(value *string) sql.NullString {
	// will update value in db
	if value != nil {
		return sql.NullString{
			String: *value,
			Valid:  true,
		}
	}
	// will ignore this value
	return sql.NullString{
		Valid: false,
	}
}

func DbNullInt64(value *int64) sql.NullInt64 {
	if value != nil {
		return sql.NullInt64{
			Int64: *value,
			Valid: true,
		}
	}
	return sql.NullInt64{
		Valid: false,
	}
}

func (s *Store) newId() sql.NullString {
	id := s.StringGenerator.GenerateUuid()
	return DbNullString(&id)
}

// Bootstrap creates the schema in place for the sqlite variant, where the
// migration tooling does not apply. Statements mirror the sql/ migrations.
func (s *Store) Bootstrap() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			name TEXT,
			email TEXT UNIQUE,
			password_hash TEXT,
			relationship TEXT,
			image_uri TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS children (
			child_id TEXT PRIMARY KEY,
			name TEXT,
			birth_date TIMESTAMP,
			image_uri TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS parent_child_links (
			link_id TEXT PRIMARY KEY,
			user_id TEXT,
			child_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS babies (
			baby_id TEXT PRIMARY KEY,
			name TEXT,
			age INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS journey_data (
			owner_id TEXT PRIMARY KEY,
			star_fragments INTEGER DEFAULT 0,
			activities TEXT DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS care_logs (
			log_id TEXT PRIMARY KEY,
			owner_id TEXT,
			type TEXT,
			details TEXT,
			timestamp TEXT
		)`,
	}
	for _, statement := range statements {
		if err := s.Db.Exec(statement).Error; err != nil {
			return err
		}
	}
	return nil
}
