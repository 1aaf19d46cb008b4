package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"menuboard/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Load returns the lines saved for a session; an unknown session has an empty cart.
func (r *CartRepo) Load(sessionID string) ([]domain.CartLine, error) {
	var raw string
	err := r.db.Get(&raw, `SELECT lines_json FROM carts WHERE session_id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Save replaces the session's cart.
func (r *CartRepo) Save(sessionID string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		INSERT INTO carts(session_id, lines_json, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE
		SET lines_json = excluded.lines_json, updated_at = excluded.updated_at
	`, sessionID, string(b), time.Now().Format(time.RFC3339))
	return err
}

func (r *CartRepo) Clear(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM carts WHERE session_id = ?`, sessionID)
	return err
}
