package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
)

// Store is the SQLite-backed attribute repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at cfg.Path
// and ensures the schema exists.
func Open(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	if cfg.Path != ":memory:" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, repoErr("open", fmt.Errorf("creating directory %s: %w", dir, err))
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, repoErr("open", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initialize creates the attribute tables if they do not exist.
func (s *Store) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS attribute_master (
		attribute_id INTEGER PRIMARY KEY AUTOINCREMENT,
		attribute_name TEXT NOT NULL,
		extraction_prompt TEXT NOT NULL,
		judgment_prompt TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS attribute_records (
		sequence_no INTEGER PRIMARY KEY AUTOINCREMENT,
		attribute_id INTEGER NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (attribute_id) REFERENCES attribute_master(attribute_id)
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return repoErr("initialize", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return repoErr("close", err)
	}
	return nil
}

// InsertAttributeMaster registers a new attribute master and returns
// its assigned ID.
func (s *Store) InsertAttributeMaster(ctx context.Context, m attribute.Master) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, repoErr("insert_master", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attribute_master (attribute_name, extraction_prompt, judgment_prompt)
		 VALUES (?, ?, ?)`,
		m.Name, m.ExtractionPrompt, m.JudgmentPrompt)
	if err != nil {
		return 0, repoErr("insert_master", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, repoErr("insert_master", err)
	}
	return id, nil
}

// AttributeMaster returns a single master by ID.
func (s *Store) AttributeMaster(ctx context.Context, id int64) (attribute.Master, error) {
	var m attribute.Master
	err := s.db.QueryRowContext(ctx,
		`SELECT attribute_id, attribute_name, extraction_prompt, judgment_prompt
		 FROM attribute_master WHERE attribute_id = ?`, id).
		Scan(&m.ID, &m.Name, &m.ExtractionPrompt, &m.JudgmentPrompt)
	if errors.Is(err, sql.ErrNoRows) {
		return attribute.Master{}, repoErr("get_master", ErrNotFound)
	}
	if err != nil {
		return attribute.Master{}, repoErr("get_master", err)
	}
	return m, nil
}

// AttributeMasters returns all masters ordered by attribute ID. This is
// the master order every turn iterates in.
func (s *Store) AttributeMasters(ctx context.Context) ([]attribute.Master, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT attribute_id, attribute_name, extraction_prompt, judgment_prompt
		 FROM attribute_master ORDER BY attribute_id`)
	if err != nil {
		return nil, repoErr("list_masters", err)
	}
	defer rows.Close()

	var masters []attribute.Master
	for rows.Next() {
		var m attribute.Master
		if err := rows.Scan(&m.ID, &m.Name, &m.ExtractionPrompt, &m.JudgmentPrompt); err != nil {
			return nil, repoErr("list_masters", err)
		}
		masters = append(masters, m)
	}
	if err := rows.Err(); err != nil {
		return nil, repoErr("list_masters", err)
	}
	return masters, nil
}

// UpdateAttributeMaster rewrites a master's name and prompts.
func (s *Store) UpdateAttributeMaster(ctx context.Context, m attribute.Master) error {
	if err := m.Validate(); err != nil {
		return repoErr("update_master", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE attribute_master
		 SET attribute_name = ?, extraction_prompt = ?, judgment_prompt = ?
		 WHERE attribute_id = ?`,
		m.Name, m.ExtractionPrompt, m.JudgmentPrompt, m.ID)
	if err != nil {
		return repoErr("update_master", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repoErr("update_master", err)
	}
	if n == 0 {
		return repoErr("update_master", ErrNotFound)
	}
	return nil
}

// DeleteAttributeMaster removes a master definition. Existing records
// for the attribute are kept.
func (s *Store) DeleteAttributeMaster(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM attribute_master WHERE attribute_id = ?`, id)
	if err != nil {
		return repoErr("delete_master", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repoErr("delete_master", err)
	}
	if n == 0 {
		return repoErr("delete_master", ErrNotFound)
	}
	return nil
}

// InsertAttributeRecord appends a new record and returns its sequence
// number. CreatedAt/UpdatedAt are stamped by the store.
func (s *Store) InsertAttributeRecord(ctx context.Context, rec attribute.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, repoErr("insert_record", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attribute_records (attribute_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		rec.AttributeID, rec.Content, now, now)
	if err != nil {
		return 0, repoErr("insert_record", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, repoErr("insert_record", err)
	}
	return seq, nil
}

// AttributeRecords returns all records for an attribute, newest first.
func (s *Store) AttributeRecords(ctx context.Context, attributeID int64) ([]attribute.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sequence_no, attribute_id, content, created_at, updated_at
		 FROM attribute_records WHERE attribute_id = ? ORDER BY sequence_no DESC`,
		attributeID)
	if err != nil {
		return nil, repoErr("list_records", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// AllAttributeRecords returns every stored record, newest first.
func (s *Store) AllAttributeRecords(ctx context.Context) ([]attribute.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sequence_no, attribute_id, content, created_at, updated_at
		 FROM attribute_records ORDER BY sequence_no DESC`)
	if err != nil {
		return nil, repoErr("list_records", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// LatestAttributeContent returns the most recent stored content for an
// attribute. ok is false when no record exists.
func (s *Store) LatestAttributeContent(ctx context.Context, attributeID int64) (string, bool, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM attribute_records
		 WHERE attribute_id = ? ORDER BY sequence_no DESC LIMIT 1`,
		attributeID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, repoErr("latest_content", err)
	}
	return content, true, nil
}

func scanRecords(rows *sql.Rows) ([]attribute.Record, error) {
	var records []attribute.Record
	for rows.Next() {
		var (
			rec                  attribute.Record
			createdAt, updatedAt string
		)
		if err := rows.Scan(&rec.SequenceNo, &rec.AttributeID, &rec.Content, &createdAt, &updatedAt); err != nil {
			return nil, repoErr("list_records", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, repoErr("list_records", err)
	}
	return records, nil
}
