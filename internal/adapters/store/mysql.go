package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

// MySQLStore is a MySQL implementation of the ContentRepository interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL and ensures the schema exists
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS training_items (
			id VARCHAR(36) PRIMARY KEY,
			subject VARCHAR(200) NOT NULL,
			sender_name VARCHAR(120) NOT NULL,
			sender_email VARCHAR(254) NOT NULL,
			body_markup TEXT NOT NULL,
			is_phish TINYINT(1) NOT NULL,
			explanation TEXT NOT NULL,
			features TEXT NOT NULL,
			difficulty INT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE KEY uniq_identity (sender_email, subject),
			KEY idx_training_difficulty (difficulty)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// FindExistingKeys returns the persisted identity keys for the given senders,
// restricted to the listed subjects per sender.
func (s *MySQLStore) FindExistingKeys(ctx context.Context, senders []string, subjectsBySender map[string][]string) (map[core.IdentityKey]struct{}, error) {
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

// BulkInsert persists a batch in one transaction, skipping rows the
// uniqueness constraint refuses.
func (s *MySQLStore) BulkInsert(ctx context.Context, items []core.TrainingItem) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT IGNORE INTO training_items
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
			item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert item: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
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
func (s *MySQLStore) CountsByDifficulty(ctx context.Context) (map[core.Difficulty]int, error) {
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
func (s *MySQLStore) CountsByVeracity(ctx context.Context) (map[bool]int, error) {
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

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
