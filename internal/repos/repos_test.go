package repos_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"menuboard/internal/domain"
	"menuboard/internal/repos"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSeedMenu(t *testing.T) {
	r := repos.NewCatalogRepo(openDB(t))

	cats, err := r.ListCategories()
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 4 || cats[0].ID != "entradas" || cats[3].ID != "bebidas" {
		t.Fatalf("categories: %+v", cats)
	}

	p, err := r.GetProduct("1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Pizza Margherita" || p.DefaultSizeID != "medium" || len(p.Sizes) != 3 {
		t.Fatalf("product: %+v", p)
	}
	if s, _ := p.Size("medium"); s.Price != 16.99 {
		t.Fatalf("medium size: %+v", s)
	}
	if len(p.Addons) != 3 || p.Addons[0].ID != "extra_queso" || p.Addons[0].Price != 2.5 || p.Addons[0].Category != domain.AddonExtra {
		t.Fatalf("addons: %+v", p.Addons)
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	db := openDB(t)
	if err := repos.SeedAdmin(db, "admin@example.com", "admin123"); err != nil {
		t.Fatal(err)
	}
	if err := repos.SeedAdmin(db, "admin@example.com", "other"); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 user, got %d", n)
	}
	u, err := repos.NewUserRepo(db).ByEmail("ADMIN@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleAdmin {
		t.Fatalf("role: %s", u.Role)
	}
}

func TestDeleteCategoryRemovesProducts(t *testing.T) {
	r := repos.NewCatalogRepo(openDB(t))
	if err := r.DeleteCategory("principales"); err != nil {
		t.Fatal(err)
	}
	ps, err := r.ListProducts()
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 1 || ps[0].ID != "2" {
		t.Fatalf("products left: %+v", ps)
	}
	if _, err := r.GetProduct("1"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteAddonUnlinksFromProducts(t *testing.T) {
	r := repos.NewCatalogRepo(openDB(t))
	if err := r.DeleteAddon("aceite_oliva"); err != nil {
		t.Fatal(err)
	}
	ps, err := r.ListProducts()
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 3 {
		t.Fatalf("products must survive, got %d", len(ps))
	}
	for _, p := range ps {
		if _, ok := p.Addon("aceite_oliva"); ok {
			t.Fatalf("product %s still links the add-on", p.ID)
		}
	}
	if err := r.DeleteAddon("aceite_oliva"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestAtomicRollsBack(t *testing.T) {
	r := repos.NewCatalogRepo(openDB(t))
	boom := errors.New("boom")
	err := r.Atomic(func(tx *repos.CatalogRepo) error {
		if err := tx.InsertCategory(domain.Category{ID: "tmp", Name: "Temp"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if _, err := r.GetCategory("tmp"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("category should have been rolled back, got %v", err)
	}
}

func TestUpdateProductReplacesChildren(t *testing.T) {
	r := repos.NewCatalogRepo(openDB(t))
	p, err := r.GetProduct("3")
	if err != nil {
		t.Fatal(err)
	}
	p.Sizes = []domain.ProductSize{{ID: "xl", Name: "XL", Price: 22}}
	p.DefaultSizeID = "xl"
	p.Addons = []domain.Addon{{ID: "guacamole"}}
	if err := r.UpdateProduct(p); err != nil {
		t.Fatal(err)
	}
	got, err := r.GetProduct("3")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Sizes) != 1 || got.Sizes[0].ID != "xl" || got.DefaultSizeID != "xl" {
		t.Fatalf("sizes: %+v", got)
	}
	if len(got.Addons) != 1 || got.Addons[0].Name != "Guacamole" || got.Addons[0].Price != 3 {
		t.Fatalf("addons: %+v", got.Addons)
	}
}

func TestCartRepoRoundTrip(t *testing.T) {
	db := openDB(t)
	carts := repos.NewCartRepo(db)
	p, err := repos.NewCatalogRepo(db).GetProduct("1")
	if err != nil {
		t.Fatal(err)
	}

	lines, err := carts.Load("sid-1")
	if err != nil || len(lines) != 0 {
		t.Fatalf("empty cart: %v %v", lines, err)
	}
	want := []domain.CartLine{{Product: p, Quantity: 2, SelectedAddonIDs: []string{"extra_queso"}, SelectedSizeID: "medium"}}
	if err := carts.Save("sid-1", want); err != nil {
		t.Fatal(err)
	}
	got, err := carts.Load("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Quantity != 2 || got[0].Product.Name != "Pizza Margherita" || len(got[0].Product.Sizes) != 3 {
		t.Fatalf("loaded: %+v", got)
	}
	if err := carts.Clear("sid-1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := carts.Load("sid-1"); len(got) != 0 {
		t.Fatalf("cart not cleared: %+v", got)
	}
}

func TestConfigRepoDefaultsAndSave(t *testing.T) {
	r := repos.NewConfigRepo(openDB(t))
	cfg, err := r.Get()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "Mi Restaurante" || cfg.Schedule.Open != "12:00" {
		t.Fatalf("defaults: %+v", cfg)
	}
	cfg.Name = "Trattoria"
	cfg.SocialMedia.Instagram = "@trattoria"
	if err := r.Save(cfg); err != nil {
		t.Fatal(err)
	}
	got, err := r.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Trattoria" || got.SocialMedia.Instagram != "@trattoria" || got.WhatsApp != cfg.WhatsApp {
		t.Fatalf("saved: %+v", got)
	}
}

func TestOrderRepo(t *testing.T) {
	r := repos.NewOrderRepo(openDB(t))
	for _, ref := range []string{"AAA111", "BBB222"} {
		if err := r.Create(repos.OrderRow{
			ID: "o-" + ref, Reference: ref, SessionID: "s", CustomerName: "Ana", CustomerPhone: "1",
			Address: "x", Payment: "cash", Total: 10.5, Message: "msg",
		}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := r.ListLatest(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Reference != "BBB222" || list[0].Status != "SENT" {
		t.Fatalf("list: %+v", list)
	}
	if _, err := r.Get("missing"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}
