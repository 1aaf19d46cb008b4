package repos

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"menuboard/internal/domain"
)

type ConfigRepo struct{ db *sqlx.DB }

func NewConfigRepo(db *sqlx.DB) *ConfigRepo { return &ConfigRepo{db: db} }

// Get returns the saved settings, or domain.DefaultConfig before the first save.
func (r *ConfigRepo) Get() (domain.RestaurantConfig, error) {
	var raw string
	err := r.db.Get(&raw, `SELECT data FROM restaurant_config WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultConfig(), nil
	}
	if err != nil {
		return domain.RestaurantConfig{}, err
	}
	cfg := domain.DefaultConfig()
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return domain.RestaurantConfig{}, err
	}
	return cfg, nil
}

func (r *ConfigRepo) Save(cfg domain.RestaurantConfig) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		INSERT INTO restaurant_config(id, data, updated_at) VALUES(1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, string(b))
	return err
}
