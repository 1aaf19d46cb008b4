package repos

import (
	"github.com/jmoiron/sqlx"

	"menuboard/internal/domain"
)

type productRow struct {
	ID              string  `db:"id"`
	CategoryID      string  `db:"category_id"`
	Name            string  `db:"name"`
	Description     string  `db:"description"`
	Price           float64 `db:"price"`
	Image           string  `db:"image"`
	PreparationTime int     `db:"preparation_time"`
	SpicyLevel      int     `db:"spicy_level"`
	DefaultSizeID   string  `db:"default_size_id"`
}

type sizeRow struct {
	ProductID string `db:"product_id"`
	domain.ProductSize
}

type linkRow struct {
	ProductID string `db:"product_id"`
	domain.Addon
}

const productCols = `id, category_id, name, description, price, image, preparation_time, spicy_level, default_size_id`

// ListProducts returns every product with its sizes and add-ons, in insertion order.
func (r *CatalogRepo) ListProducts() ([]domain.Product, error) {
	var rows []productRow
	if err := sqlx.Select(r.q, &rows, `SELECT `+productCols+` FROM products ORDER BY rowid`); err != nil {
		return nil, err
	}
	var sizes []sizeRow
	if err := sqlx.Select(r.q, &sizes, `
	  SELECT product_id, id, name, price FROM product_sizes ORDER BY product_id, position
	`); err != nil {
		return nil, err
	}
	var links []linkRow
	if err := sqlx.Select(r.q, &links, `
	  SELECT pa.product_id, a.id, a.name, a.price, a.category
	  FROM product_addons pa JOIN addons a ON a.id = pa.addon_id
	  ORDER BY pa.product_id, pa.position
	`); err != nil {
		return nil, err
	}
	return assemble(rows, sizes, links), nil
}

func (r *CatalogRepo) GetProduct(id string) (domain.Product, error) {
	var row productRow
	if err := sqlx.Get(r.q, &row, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, notFound(err, "product", id)
	}
	var sizes []sizeRow
	if err := sqlx.Select(r.q, &sizes, `
	  SELECT product_id, id, name, price FROM product_sizes WHERE product_id = ? ORDER BY position
	`, id); err != nil {
		return domain.Product{}, err
	}
	var links []linkRow
	if err := sqlx.Select(r.q, &links, `
	  SELECT pa.product_id, a.id, a.name, a.price, a.category
	  FROM product_addons pa JOIN addons a ON a.id = pa.addon_id
	  WHERE pa.product_id = ?
	  ORDER BY pa.position
	`, id); err != nil {
		return domain.Product{}, err
	}
	return assemble([]productRow{row}, sizes, links)[0], nil
}

func assemble(rows []productRow, sizes []sizeRow, links []linkRow) []domain.Product {
	bySize := map[string][]domain.ProductSize{}
	for _, s := range sizes {
		bySize[s.ProductID] = append(bySize[s.ProductID], s.ProductSize)
	}
	byAddon := map[string][]domain.Addon{}
	for _, l := range links {
		byAddon[l.ProductID] = append(byAddon[l.ProductID], l.Addon)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		addons := byAddon[row.ID]
		if addons == nil {
			addons = []domain.Addon{}
		}
		out = append(out, domain.Product{
			ID:              row.ID,
			Name:            row.Name,
			Description:     row.Description,
			Price:           row.Price,
			CategoryID:      row.CategoryID,
			Addons:          addons,
			Image:           row.Image,
			PreparationTime: row.PreparationTime,
			SpicyLevel:      row.SpicyLevel,
			Sizes:           bySize[row.ID],
			DefaultSizeID:   row.DefaultSizeID,
		})
	}
	return out
}

func (r *CatalogRepo) InsertProduct(p domain.Product) error {
	_, err := r.q.Exec(`
	  INSERT INTO products(`+productCols+`)
	  VALUES(?,?,?,?,?,?,?,?,?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.Image, p.PreparationTime, p.SpicyLevel, p.DefaultSizeID)
	if err != nil {
		return err
	}
	return r.replaceChildren(p)
}

func (r *CatalogRepo) UpdateProduct(p domain.Product) error {
	res, err := r.q.Exec(`
	  UPDATE products
	  SET category_id = ?, name = ?, description = ?, price = ?, image = ?,
	      preparation_time = ?, spicy_level = ?, default_size_id = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.Image, p.PreparationTime, p.SpicyLevel, p.DefaultSizeID, p.ID)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "product", p.ID); err != nil {
		return err
	}
	return r.replaceChildren(p)
}

// replaceChildren rewrites the product's sizes and add-on links.
func (r *CatalogRepo) replaceChildren(p domain.Product) error {
	if _, err := r.q.Exec(`DELETE FROM product_sizes WHERE product_id = ?`, p.ID); err != nil {
		return err
	}
	if _, err := r.q.Exec(`DELETE FROM product_addons WHERE product_id = ?`, p.ID); err != nil {
		return err
	}
	for i, s := range p.Sizes {
		if _, err := r.q.Exec(`INSERT INTO product_sizes(product_id,id,name,price,position) VALUES(?,?,?,?,?)`,
			p.ID, s.ID, s.Name, s.Price, i); err != nil {
			return err
		}
	}
	for i, a := range p.Addons {
		if _, err := r.q.Exec(`
		  INSERT INTO product_addons(product_id,addon_id,position) VALUES(?,?,?)
		  ON CONFLICT(product_id,addon_id) DO NOTHING
		`, p.ID, a.ID, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *CatalogRepo) DeleteProduct(id string) error {
	if _, err := r.q.Exec(`DELETE FROM product_sizes WHERE product_id = ?`, id); err != nil {
		return err
	}
	if _, err := r.q.Exec(`DELETE FROM product_addons WHERE product_id = ?`, id); err != nil {
		return err
	}
	res, err := r.q.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "product", id)
}
