package repos

import "github.com/jmoiron/sqlx"

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderRow is an order as handed off to WhatsApp, kept for the back-office.
type OrderRow struct {
	ID            string  `db:"id" json:"id"`
	Reference     string  `db:"reference" json:"reference"`
	SessionID     string  `db:"session_id" json:"-"`
	CustomerName  string  `db:"customer_name" json:"customerName"`
	CustomerPhone string  `db:"customer_phone" json:"customerPhone"`
	Address       string  `db:"address" json:"address"`
	Payment       string  `db:"payment" json:"payment"`
	Notes         string  `db:"notes" json:"notes"`
	Total         float64 `db:"total" json:"total"`
	Message       string  `db:"message" json:"message"`
	Status        string  `db:"status" json:"status"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`
}

func (r *OrderRepo) Create(o OrderRow) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO orders
	    (id, reference, session_id, customer_name, customer_phone, address, payment, notes, total, message, status, created_at)
	  VALUES
	    (:id, :reference, :session_id, :customer_name, :customer_phone, :address, :payment, :notes, :total, :message, 'SENT', CURRENT_TIMESTAMP)
	`, o)
	return err
}

func (r *OrderRepo) Get(id string) (OrderRow, error) {
	var o OrderRow
	err := r.db.Get(&o, `
		SELECT id, reference, COALESCE(session_id,'') AS session_id, customer_name, customer_phone,
		       address, payment, notes, total, message, status, created_at
		FROM orders WHERE id = ?
	`, id)
	return o, notFound(err, "order", id)
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderRow, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderRow{}
	err := r.db.Select(&out, `
		SELECT id, reference, COALESCE(session_id,'') AS session_id, customer_name, customer_phone,
		       address, payment, notes, total, message, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC, rowid DESC
		LIMIT ?
	`, limit)
	return out, err
}
