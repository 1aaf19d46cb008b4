package repos

import (
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; ":memory:" databases also live on a single connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the demo menu if the catalog is empty
	if err := seedMenuIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Add-ons
CREATE TABLE IF NOT EXISTS addons(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  category TEXT NOT NULL CHECK (category IN ('sauce','extra','protein','topping')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_addons_name ON addons(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  image TEXT NOT NULL DEFAULT '',
  preparation_time INTEGER NOT NULL DEFAULT 0,
  spicy_level INTEGER NOT NULL DEFAULT 0 CHECK (spicy_level BETWEEN 0 AND 3),
  default_size_id TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

CREATE TABLE IF NOT EXISTS product_sizes(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  position INTEGER NOT NULL,
  PRIMARY KEY (product_id, id)
);

CREATE TABLE IF NOT EXISTS product_addons(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  addon_id   TEXT NOT NULL REFERENCES addons(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  PRIMARY KEY (product_id, addon_id)
);
CREATE INDEX IF NOT EXISTS idx_product_addons_addon ON product_addons(addon_id);

-- Carts: one per browser session, lines hold product snapshots
CREATE TABLE IF NOT EXISTS carts(
  session_id TEXT PRIMARY KEY,
  lines_json TEXT NOT NULL DEFAULT '[]',
  updated_at TEXT
);

-- Orders sent over WhatsApp
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  reference TEXT NOT NULL,
  session_id TEXT,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  address TEXT NOT NULL,
  payment TEXT NOT NULL CHECK (payment IN ('cash','transfer')),
  notes TEXT NOT NULL DEFAULT '',
  total NUMERIC NOT NULL,
  message TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'SENT',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Restaurant settings (single row)
CREATE TABLE IF NOT EXISTS restaurant_config(
  id INTEGER PRIMARY KEY CHECK (id = 1),
  data TEXT NOT NULL,
  updated_at TEXT
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedMenuIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/addons/products")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`INSERT INTO categories(id,name,description) VALUES
		  ('entradas','Entradas','Para comenzar'),
		  ('principales','Principales','Platos destacados'),
		  ('postres','Postres','Final dulce'),
		  ('bebidas','Bebidas','Para acompañar')`,

		`INSERT INTO addons(id,name,price,category) VALUES
		  ('extra_queso','Queso Extra',2.50,'extra'),
		  ('guacamole','Guacamole',3.00,'extra'),
		  ('salsa_ajo','Salsa de Ajo',1.50,'sauce'),
		  ('picante_extra','Picante Extra',1.00,'sauce'),
		  ('aceite_oliva','Aceite de Oliva Extra Virgen',2.00,'extra'),
		  ('parmesano','Parmesano Rallado',2.50,'topping'),
		  ('huevo','Huevo Frito',2.00,'protein'),
		  ('bacon','Bacon Crujiente',3.50,'protein'),
		  ('champinones','Champiñones Salteados',2.50,'topping'),
		  ('cebolla_caram','Cebolla Caramelizada',2.00,'topping')`,

		`INSERT INTO products(id,category_id,name,description,price,image,preparation_time,default_size_id) VALUES
		  ('1','principales','Pizza Margherita','Salsa de tomate, mozzarella y albahaca fresca',12.99,'https://images.unsplash.com/photo-1574071318508-1cdbab80d002',20,'medium'),
		  ('2','entradas','Ensalada Verde','Mix de hojas orgánicas, semillas y vinagreta cítrica',12.99,'https://images.unsplash.com/photo-1512621776951-a57141f2eefd',0,''),
		  ('3','principales','Hamburguesa Clásica','Carne de res, lechuga, tomate y queso cheddar',14.99,'https://images.unsplash.com/photo-1568901346375-23c9450c58cd',15,'regular')`,

		`INSERT INTO product_sizes(product_id,id,name,price,position) VALUES
		  ('1','small','Pequeña',12.99,0),
		  ('1','medium','Mediana',16.99,1),
		  ('1','large','Grande',20.99,2),
		  ('3','regular','Regular',14.99,0),
		  ('3','double','Doble',18.99,1)`,

		`INSERT INTO product_addons(product_id,addon_id,position) VALUES
		  ('1','extra_queso',0),('1','aceite_oliva',1),('1','champinones',2),
		  ('2','parmesano',0),('2','aceite_oliva',1),('2','champinones',2),
		  ('3','bacon',0),('3','huevo',1),('3','cebolla_caram',2),('3','extra_queso',3)`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SeedAdmin ensures the back-office account exists (idempotent). An existing
// account keeps its password.
func SeedAdmin(db *sqlx.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES(?,?,?,?,'ADMIN')
		ON CONFLICT(email) DO NOTHING
	`, "u-admin", email, "Admin", string(h))
	return err
}
