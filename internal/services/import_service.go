package services

import (
	"context"
	"time"

	"menuboard/internal/domain"
	"menuboard/internal/importer"
	"menuboard/internal/repos"
)

// Imported rows with no category are filed here.
const fallbackCategory = "Other"

type ImportSummary struct {
	CategoriesCreated int                   `json:"categoriesCreated"`
	AddonsCreated     int                   `json:"addonsCreated"`
	AddonsUpdated     int                   `json:"addonsUpdated"`
	ProductsCreated   int                   `json:"productsCreated"`
	ProductsUpdated   int                   `json:"productsUpdated"`
	Diagnostics       []importer.Diagnostic `json:"diagnostics"`
}

// ApplyImport merges normalized candidates into the catalog in one
// transaction. Categories and add-ons match by name, products by name within
// their category, all ignoring case; matches are updated and the rest created,
// so importing the same sheet twice changes nothing the second time.
func (s *CatalogService) ApplyImport(res importer.Result) (ImportSummary, error) {
	sum := ImportSummary{Diagnostics: res.Diagnostics}
	if sum.Diagnostics == nil {
		sum.Diagnostics = []importer.Diagnostic{}
	}
	err := s.Repo.Atomic(func(tx *repos.CatalogRepo) error {
		cats, err := tx.ListCategories()
		if err != nil {
			return err
		}
		catID := make(map[string]string, len(cats))
		for _, c := range cats {
			if _, dup := catID[lower(c.Name)]; !dup {
				catID[lower(c.Name)] = c.ID
			}
		}
		ensureCat := func(name, desc string) (string, error) {
			if id, ok := catID[lower(name)]; ok {
				return id, nil
			}
			c := domain.Category{ID: s.IDs.NewID(), Name: name, Description: desc}
			if err := tx.InsertCategory(c); err != nil {
				return "", err
			}
			catID[lower(name)] = c.ID
			sum.CategoriesCreated++
			return c.ID, nil
		}
		for _, c := range res.Categories {
			if _, err := ensureCat(c.Name, c.Description); err != nil {
				return err
			}
		}

		addons, err := tx.ListAddons()
		if err != nil {
			return err
		}
		addonByName := make(map[string]domain.Addon, len(addons))
		for _, a := range addons {
			if _, dup := addonByName[lower(a.Name)]; !dup {
				addonByName[lower(a.Name)] = a
			}
		}
		for _, cand := range res.Addons {
			cur, ok := addonByName[lower(cand.Name)]
			if !ok {
				a := domain.Addon{ID: s.IDs.NewID(), Name: cand.Name, Price: cand.Price, Category: cand.Category}
				if err := tx.InsertAddon(a); err != nil {
					return err
				}
				addonByName[lower(a.Name)] = a
				sum.AddonsCreated++
				continue
			}
			if cur.Price != cand.Price {
				cur.Price = cand.Price
				if err := tx.UpdateAddon(cur); err != nil {
					return err
				}
				addonByName[lower(cur.Name)] = cur
				sum.AddonsUpdated++
			}
		}

		products, err := tx.ListProducts()
		if err != nil {
			return err
		}
		existing := make(map[string]domain.Product, len(products))
		for _, p := range products {
			existing[p.CategoryID+"|"+lower(p.Name)] = p
		}
		for _, cand := range res.Products {
			catName := cand.Category
			if catName == "" {
				catName = fallbackCategory
			}
			cid, err := ensureCat(catName, "Category: "+catName)
			if err != nil {
				return err
			}
			key := cid + "|" + lower(cand.Name)
			cur, found := existing[key]

			id := cur.ID
			if !found {
				id = s.IDs.NewID()
			}
			p := domain.Product{
				ID:              id,
				Name:            cand.Name,
				Description:     cand.Description,
				Price:           cand.Price,
				CategoryID:      cid,
				Image:           cand.Image,
				PreparationTime: cand.PreparationTime,
				SpicyLevel:      cand.SpicyLevel,
				Sizes:           candidateSizes(cand.Sizes, cur),
				Addons:          []domain.Addon{},
			}
			p.DefaultSizeID = resolveSize(p.Sizes, cand.DefaultSize)
			for _, ac := range cand.Addons {
				if a, ok := addonByName[lower(ac.Name)]; ok {
					p.Addons = append(p.Addons, a)
				}
			}

			if found {
				if err := tx.UpdateProduct(p); err != nil {
					return err
				}
				sum.ProductsUpdated++
			} else {
				if err := tx.InsertProduct(p); err != nil {
					return err
				}
				sum.ProductsCreated++
			}
			existing[key] = p
		}
		return nil
	})
	if err != nil {
		return ImportSummary{}, err
	}
	return sum, nil
}

// candidateSizes keeps the ids of sizes the product already had under the same
// name, so carts holding those sizes stay valid across re-imports.
func candidateSizes(in []domain.ProductSize, cur domain.Product) []domain.ProductSize {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.ProductSize, len(in))
	used := map[string]bool{}
	for i, sz := range in {
		out[i] = sz
		for _, old := range cur.Sizes {
			if lower(old.Name) == lower(sz.Name) && !used[old.ID] {
				out[i].ID = old.ID
				break
			}
		}
		used[out[i].ID] = true
	}
	return out
}

// resolveSize matches ref against size names, then ids. No match gives "".
func resolveSize(sizes []domain.ProductSize, ref string) string {
	if ref == "" {
		return ""
	}
	for _, sz := range sizes {
		if lower(sz.Name) == lower(ref) {
			return sz.ID
		}
	}
	for _, sz := range sizes {
		if sz.ID == ref {
			return sz.ID
		}
	}
	return ""
}

// ImportService feeds tabular sources through the normalizer into the catalog.
type ImportService struct {
	Catalog *CatalogService
	Sheets  *importer.SheetsSource
}

func NewImportService(catalog *CatalogService, sheets *importer.SheetsSource) *ImportService {
	return &ImportService{Catalog: catalog, Sheets: sheets}
}

// ImportFile imports an uploaded .csv or .xlsx file.
func (s *ImportService) ImportFile(filename string, data []byte) (ImportSummary, error) {
	table, err := importer.Read(filename, data)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.apply(table)
}

// ImportSheet imports a Google Sheets range.
func (s *ImportService) ImportSheet(ctx context.Context, spreadsheetID, readRange string) (ImportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	table, err := s.Sheets.Read(ctx, spreadsheetID, readRange)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.apply(table)
}

func (s *ImportService) apply(table [][]string) (ImportSummary, error) {
	res, err := importer.Normalize(table, s.Catalog.IDs)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.Catalog.ApplyImport(res)
}

// ExportRows renders the catalog in the import column layout.
func (s *ImportService) ExportRows() ([][]string, error) {
	m, err := s.Catalog.Menu()
	if err != nil {
		return nil, err
	}
	return importer.Rows(m.Products, m.Categories), nil
}
