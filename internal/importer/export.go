package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"

	"menuboard/internal/domain"
)

// Rows renders products in the import layout, header first. Categories are
// written by name and the default size by size name so an export can be
// imported again unchanged.
func Rows(products []domain.Product, categories []domain.Category) [][]string {
	catNames := make(map[string]string, len(categories))
	for _, c := range categories {
		catNames[c.ID] = c.Name
	}
	out := [][]string{append([]string(nil), Columns...)}
	for _, p := range products {
		cat := catNames[p.CategoryID]
		if cat == "" {
			cat = p.CategoryID
		}
		def := ""
		if s, ok := p.Size(p.DefaultSizeID); ok {
			def = s.Name
		}
		sizes := make([]string, 0, len(p.Sizes))
		for _, s := range p.Sizes {
			sizes = append(sizes, s.Name+":"+formatPrice(s.Price))
		}
		addons := make([]string, 0, len(p.Addons))
		for _, a := range p.Addons {
			addons = append(addons, a.Name+":"+formatPrice(a.Price))
		}
		out = append(out, []string{
			p.Name,
			p.Description,
			formatPrice(p.Price),
			cat,
			p.Image,
			strconv.Itoa(p.PreparationTime),
			strconv.Itoa(p.SpicyLevel),
			strings.Join(sizes, ","),
			def,
			strings.Join(addons, ","),
		})
	}
	return out
}

func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return nil
}

func WriteXLSX(w io.Writer, sheetName string, rows [][]string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("export: add sheet: %w", err)
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: write xlsx: %w", err)
	}
	return nil
}

// Template is the header row plus one example product.
func Template() [][]string {
	return [][]string{
		append([]string(nil), Columns...),
		{
			"Margherita Pizza",
			"Classic Italian pizza",
			"12.99",
			"Pizzas",
			"https://example.com/pizza.jpg",
			"20",
			"0",
			"Small:12.99,Medium:15.99,Large:18.99",
			"Medium",
			"Extra Cheese:2.50",
		},
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
