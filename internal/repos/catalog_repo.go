package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CatalogRepo stores categories, add-ons and products. Methods run against
// the database, or against a transaction inside Atomic.
type CatalogRepo struct {
	db *sqlx.DB
	q  sqlx.Ext
}

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db, q: db} }

// Atomic runs fn with a repo bound to one transaction. fn must only use the
// repo it is given: the pool has a single connection, held by the transaction.
func (r *CatalogRepo) Atomic(fn func(tx *CatalogRepo) error) error {
	if _, inTx := r.q.(*sqlx.Tx); inTx {
		return fn(r)
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&CatalogRepo{db: r.db, q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
	}
	return err
}

func mustAffect(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
	}
	return nil
}
