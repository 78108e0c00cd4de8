package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hireloop/concierge/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database, runs migrations and seeds the skill
// vocabulary.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := s.seedSkills(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed skills: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			assistant_session_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			full_time BOOLEAN NOT NULL DEFAULT 0,
			full_time_salary REAL,
			part_time_salary REAL
		)`,
		`CREATE TABLE IF NOT EXISTS skills (
			skill_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS user_skills (
			user_id TEXT NOT NULL,
			skill_id INTEGER NOT NULL,
			PRIMARY KEY (user_id, skill_id),
			FOREIGN KEY (user_id) REFERENCES users(user_id),
			FOREIGN KEY (skill_id) REFERENCES skills(skill_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_skills_skill ON user_skills(skill_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

func (s *SQLiteStore) seedSkills() error {
	stmt, err := s.db.Prepare("INSERT OR IGNORE INTO skills (name) VALUES (?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range domain.DefaultSkillVocabulary {
		if _, err := stmt.Exec(name); err != nil {
			return err
		}
	}
	return nil
}

// CreateSession stores the mapping from a client token to an assistant
// session id.
func (s *SQLiteStore) CreateSession(ctx context.Context, token, assistantSessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (token, assistant_session_id, created_at) VALUES (?, ?, ?)",
		token, assistantSessionID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession resolves a client token to its assistant session id.
func (s *SQLiteStore) GetSession(ctx context.Context, token string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx,
		"SELECT assistant_session_id FROM sessions WHERE token = ?", token,
	).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return sessionID, nil
}

// SearchCandidates runs the filter against the candidate tables. The result
// is ordered per BuildCandidateQuery and never exceeds filter.Limit.
func (s *SQLiteStore) SearchCandidates(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	query, args := BuildCandidateQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	withMatched := len(filter.Skills) > 0
	var candidates []domain.Candidate
	for rows.Next() {
		var (
			c        domain.Candidate
			fullTime sql.NullFloat64
			partTime sql.NullFloat64
		)
		if withMatched {
			err = rows.Scan(&c.UserID, &c.FullName, &c.FullTime, &fullTime, &partTime, &c.MatchedSkills)
		} else {
			err = rows.Scan(&c.UserID, &c.FullName, &c.FullTime, &fullTime, &partTime)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if fullTime.Valid {
			c.FullTimeSalary = &fullTime.Float64
		}
		if partTime.Valid {
			c.PartTimeSalary = &partTime.Float64
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return candidates, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
