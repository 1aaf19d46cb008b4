package repos

import (
	"github.com/jmoiron/sqlx"

	"menuboard/internal/domain"
)

func (r *CatalogRepo) ListCategories() ([]domain.Category, error) {
	out := []domain.Category{}
	err := sqlx.Select(r.q, &out, `
	  SELECT id, name, description
	  FROM categories
	  ORDER BY rowid
	`)
	return out, err
}

func (r *CatalogRepo) GetCategory(id string) (domain.Category, error) {
	var c domain.Category
	err := sqlx.Get(r.q, &c, `SELECT id, name, description FROM categories WHERE id = ?`, id)
	return c, notFound(err, "category", id)
}

func (r *CatalogRepo) InsertCategory(c domain.Category) error {
	_, err := r.q.Exec(`INSERT INTO categories(id,name,description) VALUES(?,?,?)`, c.ID, c.Name, c.Description)
	return err
}

func (r *CatalogRepo) UpdateCategory(c domain.Category) error {
	res, err := r.q.Exec(`
	  UPDATE categories SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, c.Name, c.Description, c.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "category", c.ID)
}

// DeleteCategory removes the category and every product filed under it.
func (r *CatalogRepo) DeleteCategory(id string) error {
	for _, q := range []string{
		`DELETE FROM product_sizes  WHERE product_id IN (SELECT id FROM products WHERE category_id = ?)`,
		`DELETE FROM product_addons WHERE product_id IN (SELECT id FROM products WHERE category_id = ?)`,
		`DELETE FROM products WHERE category_id = ?`,
	} {
		if _, err := r.q.Exec(q, id); err != nil {
			return err
		}
	}
	res, err := r.q.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "category", id)
}
