// Package importer turns tabular menu data (CSV, XLSX, Google Sheets) into
// candidate catalog records, and writes the catalog back out in the same
// column layout. It never touches the catalog itself.
package importer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"menuboard/internal/domain"
	"menuboard/internal/ids"
)

var (
	ErrEmptyTable        = errors.New("import: table is empty or missing header row")
	ErrMissingNameColumn = errors.New("import: header row has no Name column")
)

// Column headers in the order the template and exports use.
var Columns = []string{
	"Name",
	"Description",
	"Price",
	"Category",
	"Image URL",
	"Preparation Time",
	"Spicy Level",
	"Sizes",
	"Default Size",
	"Addons",
}

// header aliases seen in older sheet templates
var aliases = map[string][]string{
	"price": {"price", "base price"},
	"image": {"image url", "image"},
	"sizes": {"sizes", "available sizes"},
}

// ProductCandidate is a product row not yet committed to the catalog. Category,
// DefaultSize and add-ons are referenced by name.
type ProductCandidate struct {
	Row             int
	Name            string
	Description     string
	Price           float64
	Category        string
	Image           string
	PreparationTime int
	SpicyLevel      int
	Sizes           []domain.ProductSize
	DefaultSize     string
	Addons          []AddonCandidate
}

type CategoryCandidate struct {
	Name        string
	Description string
}

type AddonCandidate struct {
	Name     string
	Price    float64
	Category domain.AddonCategory
}

// Diagnostic reports a cell that could not be read as-is and fell back to a default.
type Diagnostic struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

type Result struct {
	Products    []ProductCandidate
	Categories  []CategoryCandidate
	Addons      []AddonCandidate
	Diagnostics []Diagnostic
}

// Normalize reads a table whose first row holds headers. Rows without a name
// are skipped; unreadable cells become zero values and a Diagnostic.
func Normalize(table [][]string, gen ids.Generator) (Result, error) {
	if len(table) == 0 || len(table[0]) == 0 {
		return Result{}, ErrEmptyTable
	}
	cols := headerMap(table[0])
	if _, ok := cols["name"]; !ok {
		return Result{}, ErrMissingNameColumn
	}

	var (
		res        Result
		catSeen    = map[string]bool{}
		addonIndex = map[string]int{}
	)
	for i, row := range table[1:] {
		r := rowReader{cols: cols, row: row, num: i + 2, diags: &res.Diagnostics}
		name := r.get("name")
		if name == "" {
			continue
		}
		p := ProductCandidate{
			Row:             r.num,
			Name:            name,
			Description:     r.get("description"),
			Price:           r.price("price"),
			Category:        r.get("category"),
			Image:           r.get("image"),
			PreparationTime: r.integer("preparation time", 0, -1),
			SpicyLevel:      r.integer("spicy level", 0, 3),
			DefaultSize:     r.get("default size"),
		}
		for _, pair := range r.pairs("sizes") {
			p.Sizes = append(p.Sizes, domain.ProductSize{ID: gen.NewID(), Name: pair.name, Price: pair.price})
		}
		for _, pair := range r.pairs("addons") {
			a := AddonCandidate{Name: pair.name, Price: pair.price, Category: domain.AddonExtra}
			p.Addons = append(p.Addons, a)
			if at, ok := addonIndex[a.Name]; ok {
				res.Addons[at] = a
				continue
			}
			addonIndex[a.Name] = len(res.Addons)
			res.Addons = append(res.Addons, a)
		}
		if p.Category != "" && !catSeen[p.Category] {
			catSeen[p.Category] = true
			res.Categories = append(res.Categories, CategoryCandidate{
				Name:        p.Category,
				Description: "Category: " + p.Category,
			})
		}
		res.Products = append(res.Products, p)
	}
	return res, nil
}

func headerMap(headers []string) map[string]int {
	raw := make(map[string]int, len(headers))
	for i, h := range headers {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, dup := raw[k]; !dup {
			raw[k] = i
		}
	}
	for canonical, names := range aliases {
		for _, n := range names {
			if idx, ok := raw[n]; ok {
				raw[canonical] = idx
				break
			}
		}
	}
	return raw
}

type rowReader struct {
	cols  map[string]int
	row   []string
	num   int
	diags *[]Diagnostic
}

func (r rowReader) get(key string) string {
	idx, ok := r.cols[key]
	if !ok || idx >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[idx])
}

func (r rowReader) warn(col, format string, args ...any) {
	*r.diags = append(*r.diags, Diagnostic{Row: r.num, Column: col, Message: fmt.Sprintf(format, args...)})
}

func (r rowReader) price(key string) float64 {
	raw := r.get(key)
	if raw == "" {
		return 0
	}
	v, ok := parseNumber(raw)
	if !ok {
		r.warn(key, "invalid number %q, using 0", raw)
		return 0
	}
	if v < 0 {
		r.warn(key, "negative price %q, using 0", raw)
		return 0
	}
	return v
}

// integer parses a whole number, clamping to [lo, hi]; hi < 0 means no upper bound.
func (r rowReader) integer(key string, lo, hi int) int {
	raw := r.get(key)
	if raw == "" {
		return 0
	}
	f, ok := parseNumber(raw)
	if !ok {
		r.warn(key, "invalid number %q, using 0", raw)
		return 0
	}
	// compare as floats: int() of an out-of-range float is undefined
	if f < float64(lo) {
		r.warn(key, "%s below %d, clamped", raw, lo)
		return lo
	}
	if hi >= 0 && f > float64(hi) {
		r.warn(key, "%s above %d, clamped", raw, hi)
		return hi
	}
	if f > math.MaxInt32 {
		r.warn(key, "%s too large, using 0", raw)
		return 0
	}
	return int(f)
}

type pricePair struct {
	name  string
	price float64
}

// pairs splits "name:price,name:price". A piece without a colon keeps its
// name and gets price 0.
func (r rowReader) pairs(key string) []pricePair {
	raw := r.get(key)
	if raw == "" {
		return nil
	}
	var out []pricePair
	for _, piece := range strings.Split(raw, ",") {
		name, priceStr, found := strings.Cut(piece, ":")
		name = strings.TrimSpace(name)
		priceStr = strings.TrimSpace(priceStr)
		if name == "" {
			continue
		}
		p := pricePair{name: name}
		switch {
		case !found:
			r.warn(key, "%q has no price, using 0", name)
		default:
			v, ok := parseNumber(priceStr)
			if !ok || v < 0 {
				r.warn(key, "%q has invalid price %q, using 0", name, priceStr)
			} else {
				p.price = v
			}
		}
		out = append(out, p)
	}
	return out
}

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)

// parseNumber accepts a full number or, failing that, a numeric prefix
// ("12.5 USD" reads as 12.5).
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
