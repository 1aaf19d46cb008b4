package importer_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"menuboard/internal/domain"
	"menuboard/internal/ids"
	"menuboard/internal/importer"
)

func TestNormalizeSkipsBlankNames(t *testing.T) {
	table := [][]string{
		{"Name", "Price", "Category"},
		{"", "9.99", "Pizzas"},
		{"   ", "1", "Drinks"},
		{"Calzone", "11", "Pizzas"},
	}
	res, err := importer.Normalize(table, ids.NewSequence("s"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Products) != 1 || res.Products[0].Name != "Calzone" {
		t.Fatalf("want only Calzone, got %+v", res.Products)
	}
	if len(res.Categories) != 1 || res.Categories[0].Name != "Pizzas" {
		t.Fatalf("categories from skipped rows leaked: %+v", res.Categories)
	}
}

func TestNormalizeParsesSizes(t *testing.T) {
	table := [][]string{
		{"name", "sizes"},
		{"Pizza", "Small:10.5,Large:15"},
	}
	res, err := importer.Normalize(table, ids.NewSequence("size"))
	if err != nil {
		t.Fatal(err)
	}
	sizes := res.Products[0].Sizes
	want := []domain.ProductSize{
		{ID: "size-1", Name: "Small", Price: 10.5},
		{ID: "size-2", Name: "Large", Price: 15},
	}
	if !reflect.DeepEqual(sizes, want) {
		t.Fatalf("got %+v", sizes)
	}
}

func TestNormalizeHeadersAreCaseInsensitiveAndTrimmed(t *testing.T) {
	table := [][]string{
		{"  NAME ", "Base Price", "Image", "Preparation Time", "SPICY LEVEL", "Available Sizes", "Default Size"},
		{"Tacos", "8.25", "https://x/t.jpg", "15", "2", "Solo:8.25,Triple:20", "Solo"},
	}
	res, err := importer.Normalize(table, ids.NewSequence("s"))
	if err != nil {
		t.Fatal(err)
	}
	p := res.Products[0]
	if p.Price != 8.25 || p.Image != "https://x/t.jpg" || p.PreparationTime != 15 || p.SpicyLevel != 2 {
		t.Fatalf("scalar fields: %+v", p)
	}
	if len(p.Sizes) != 2 || p.DefaultSize != "Solo" {
		t.Fatalf("sizes: %+v", p)
	}
}

func TestNormalizeDegradesBadCellsToZero(t *testing.T) {
	table := [][]string{
		{"Name", "Price", "Preparation Time", "Spicy Level", "Sizes", "Addons"},
		{"Soup", "abc", "soon", "9", "Bowl,Cup:x", "Bread"},
	}
	res, err := importer.Normalize(table, ids.NewSequence("s"))
	if err != nil {
		t.Fatal(err)
	}
	p := res.Products[0]
	if p.Price != 0 || p.PreparationTime != 0 {
		t.Fatalf("want zeros, got %+v", p)
	}
	if p.SpicyLevel != 3 {
		t.Fatalf("spicy level should clamp to 3, got %d", p.SpicyLevel)
	}
	if len(p.Sizes) != 2 || p.Sizes[0].Name != "Bowl" || p.Sizes[0].Price != 0 || p.Sizes[1].Price != 0 {
		t.Fatalf("sizes: %+v", p.Sizes)
	}
	if len(p.Addons) != 1 || p.Addons[0].Name != "Bread" || p.Addons[0].Price != 0 {
		t.Fatalf("addons: %+v", p.Addons)
	}
	if len(res.Diagnostics) != 6 {
		t.Fatalf("want 6 diagnostics, got %+v", res.Diagnostics)
	}
	for _, d := range res.Diagnostics {
		if d.Row != 2 {
			t.Fatalf("diagnostic row: %+v", d)
		}
	}
}

func TestNormalizeHugeIntegersClamp(t *testing.T) {
	table := [][]string{
		{"Name", "Preparation Time", "Spicy Level"},
		{"Soup", "1e300", "1e300"},
		{"Stew", "-1e300", "-1e300"},
	}
	res, err := importer.Normalize(table, ids.NewSequence("s"))
	if err != nil {
		t.Fatal(err)
	}
	soup, stew := res.Products[0], res.Products[1]
	if soup.SpicyLevel != 3 || soup.PreparationTime != 0 {
		t.Fatalf("soup: %+v", soup)
	}
	if stew.SpicyLevel != 0 || stew.PreparationTime != 0 {
		t.Fatalf("stew: %+v", stew)
	}
	var above, below int
	for _, d := range res.Diagnostics {
		switch {
		case strings.Contains(d.Message, "above"), strings.Contains(d.Message, "too large"):
			above++
		case strings.Contains(d.Message, "below"):
			below++
		}
	}
	if above != 2 || below != 2 {
		t.Fatalf("diagnostics: %+v", res.Diagnostics)
	}
}

func TestNormalizeNumericPrefix(t *testing.T) {
	table := [][]string{
		{"Name", "Price"},
		{"Tea", "$3.5 each"},
	}
	res, err := importer.Normalize(table, ids.NewSequence("s"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Products[0].Price != 3.5 {
		t.Fatalf("got %v", res.Products[0].Price)
	}
}

func TestNormalizeDedupesCategoriesAndAddons(t *testing.T) {
	table := [][]string{
		{"Name", "Category", "Addons"},
		{"Margherita", "Pizzas", "Extra Cheese:2,Olives:1"},
		{"Cola", "Drinks", ""},
		{"Pepperoni", "Pizzas", "Extra Cheese:2.5"},
		{"Diavola", "pizzas", ""},
	}
	res, err := importer.Normalize(table, ids.NewSequence("s"))
	if err != nil {
		t.Fatal(err)
	}
	var cats []string
	for _, c := range res.Categories {
		cats = append(cats, c.Name)
	}
	// exact match only: "pizzas" is its own category
	if !reflect.DeepEqual(cats, []string{"Pizzas", "Drinks", "pizzas"}) {
		t.Fatalf("categories: %v", cats)
	}
	if res.Categories[0].Description != "Category: Pizzas" {
		t.Fatalf("description: %q", res.Categories[0].Description)
	}
	want := []importer.AddonCandidate{
		{Name: "Extra Cheese", Price: 2.5, Category: domain.AddonExtra},
		{Name: "Olives", Price: 1, Category: domain.AddonExtra},
	}
	if !reflect.DeepEqual(res.Addons, want) {
		t.Fatalf("addons (last seen wins): %+v", res.Addons)
	}
	if len(res.Products) != 4 || res.Products[2].Name != "Pepperoni" {
		t.Fatalf("products keep row order: %+v", res.Products)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	table := [][]string{
		{"Name", "Category", "Sizes", "Addons"},
		{"Margherita", "Pizzas", "S:1,L:2", "Cheese:1"},
	}
	a, err := importer.Normalize(table, ids.NewSequence("s"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := importer.Normalize(table, ids.NewSequence("s"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestNormalizeStructuralErrors(t *testing.T) {
	if _, err := importer.Normalize(nil, ids.UUID{}); !errors.Is(err, importer.ErrEmptyTable) {
		t.Fatalf("want ErrEmptyTable, got %v", err)
	}
	if _, err := importer.Normalize([][]string{{"Title", "Price"}, {"x", "1"}}, ids.UUID{}); !errors.Is(err, importer.ErrMissingNameColumn) {
		t.Fatalf("want ErrMissingNameColumn, got %v", err)
	}
}

func TestNormalizeShortRows(t *testing.T) {
	table := [][]string{
		{"Name", "Description", "Price", "Category"},
		{"Water"},
	}
	res, err := importer.Normalize(table, ids.UUID{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Products) != 1 || res.Products[0].Price != 0 || res.Products[0].Category != "" {
		t.Fatalf("got %+v", res.Products)
	}
}
