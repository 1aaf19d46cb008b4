package repos

import (
	"github.com/jmoiron/sqlx"

	"menuboard/internal/domain"
)

func (r *CatalogRepo) ListAddons() ([]domain.Addon, error) {
	out := []domain.Addon{}
	err := sqlx.Select(r.q, &out, `SELECT id, name, price, category FROM addons ORDER BY rowid`)
	return out, err
}

func (r *CatalogRepo) GetAddon(id string) (domain.Addon, error) {
	var a domain.Addon
	err := sqlx.Get(r.q, &a, `SELECT id, name, price, category FROM addons WHERE id = ?`, id)
	return a, notFound(err, "addon", id)
}

func (r *CatalogRepo) InsertAddon(a domain.Addon) error {
	_, err := r.q.Exec(`INSERT INTO addons(id,name,price,category) VALUES(?,?,?,?)`,
		a.ID, a.Name, a.Price, string(a.Category))
	return err
}

func (r *CatalogRepo) UpdateAddon(a domain.Addon) error {
	res, err := r.q.Exec(`
	  UPDATE addons SET name = ?, price = ?, category = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, a.Name, a.Price, string(a.Category), a.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "addon", a.ID)
}

// DeleteAddon unlinks the add-on from every product, then removes it.
func (r *CatalogRepo) DeleteAddon(id string) error {
	if _, err := r.q.Exec(`DELETE FROM product_addons WHERE addon_id = ?`, id); err != nil {
		return err
	}
	res, err := r.q.Exec(`DELETE FROM addons WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "addon", id)
}
