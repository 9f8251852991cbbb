package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

// SQLiteStore is a SQLite implementation of the ContentRepository interface.
// The UNIQUE (sender_email, subject) constraint is the authoritative dedup
// guard against concurrent batches.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (and if needed creates) the SQLite database
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS training_items (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			sender_name TEXT NOT NULL,
			sender_email TEXT NOT NULL,
			body_markup TEXT NOT NULL,
			is_phish BOOLEAN NOT NULL,
			explanation TEXT NOT NULL,
			features TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (sender_email, subject)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_training_difficulty ON training_items(difficulty)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// FindExistingKeys returns the persisted identity keys for the given senders,
// restricted to the listed subjects per sender. One query per distinct
// sender, not per candidate.
func (s *SQLiteStore) FindExistingKeys(ctx context.Context, senders []string, subjectsBySender map[string][]string) (map[core.IdentityKey]struct{}, error) {
	existing := make(map[core.IdentityKey]struct{})

	for _, sender := range senders {
		subjects := subjectsBySender[sender]
		if len(subjects) == 0 {
			continue
		}

		placeholders := strings.Repeat("?,", len(subjects))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]interface{}, 0, len(subjects)+1)
		args = append(args, sender)
		for _, subj := range subjects {
			args = append(args, subj)
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT sender_email, subject FROM training_items
			WHERE sender_email = ? AND subject IN (`+placeholders+`)
		`, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query existing keys: %w", err)
		}

		for rows.Next() {
			var key core.IdentityKey
			if err := rows.Scan(&key.SenderEmail, &key.Subject); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan key row: %w", err)
			}
			existing[key] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to read key rows: %w", err)
		}
		rows.Close()
	}

	return existing, nil
}

// BulkInsert persists a batch in one transaction. A row refused by the
// uniqueness constraint is skipped; any other failure rolls the whole batch
// back.
func (s *SQLiteStore) BulkInsert(ctx context.Context, items []core.TrainingItem) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO training_items
			(id, subject, sender_name, sender_email, body_markup, is_phish, explanation, features, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted []string
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		features, err := json.Marshal(item.Features)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal features: %w", err)
		}

		res, err := stmt.ExecContext(ctx,
			item.ID, item.Subject, item.SenderName, item.SenderEmail, item.BodyMarkup,
			item.IsPhish, item.Explanation, string(features), int(item.Difficulty),
			item.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("failed to insert item: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			// Lost the race to another batch on the uniqueness
			// constraint. Benign.
			s.logger.Debug("Skipped duplicate on insert",
				zap.String("sender", item.SenderEmail),
				zap.String("subject", item.Subject))
			continue
		}
		inserted = append(inserted, item.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}

// CountsByDifficulty reports how many items exist per tier
func (s *SQLiteStore) CountsByDifficulty(ctx context.Context) (map[core.Difficulty]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT difficulty, COUNT(*) FROM training_items GROUP BY difficulty
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by difficulty: %w", err)
	}
	defer rows.Close()

	counts := make(map[core.Difficulty]int)
	for rows.Next() {
		var tier, n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[core.Difficulty(tier)] = n
	}
	return counts, rows.Err()
}

// CountsByVeracity reports how many phishing vs legitimate items exist
func (s *SQLiteStore) CountsByVeracity(ctx context.Context) (map[bool]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT is_phish, COUNT(*) FROM training_items GROUP BY is_phish
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by veracity: %w", err)
	}
	defer rows.Close()

	counts := make(map[bool]int)
	for rows.Next() {
		var isPhish bool
		var n int
		if err := rows.Scan(&isPhish, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[isPhish] = n
	}
	return counts, rows.Err()
}

// All returns every persisted item, oldest first.
func (s *SQLiteStore) All(ctx context.Context) ([]core.TrainingItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject, sender_name, sender_email, body_markup, is_phish, explanation, features, difficulty, created_at
		FROM training_items ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []core.TrainingItem
	for rows.Next() {
		var (
			item      core.TrainingItem
			features  string
			tier      int
			createdAt string
		)
		if err := rows.Scan(&item.ID, &item.Subject, &item.SenderName, &item.SenderEmail,
			&item.BodyMarkup, &item.IsPhish, &item.Explanation, &features, &tier, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		if err := json.Unmarshal([]byte(features), &item.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
		item.Difficulty = core.Difficulty(tier)
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			item.CreatedAt = ts
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
