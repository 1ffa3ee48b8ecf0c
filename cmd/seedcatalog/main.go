// Command seedcatalog converts a product catalog Excel file into a SQL seed
// file. The first sheet is expected to have the columns SKU, Name, Brand,
// Category, Unit Price, Stock, with a header row.
// Usage: go run ./cmd/seedcatalog -store <store-slug> [-in catalog.xlsx] [-out db/seeds/products.sql]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const batchSize = 200

type catalogEntry struct {
	sku      string
	name     string
	brand    string
	category string
	price    float64
	stock    int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	storeSlug := flag.String("store", "", "slug of the store the products belong to")
	inPath := flag.String("in", "catalog.xlsx", "path to the catalog Excel file")
	outPath := flag.String("out", "db/seeds/products.sql", "path of the generated SQL file")
	flag.Parse()

	if *storeSlug == "" {
		return fmt.Errorf("-store is required")
	}

	f, err := excelize.OpenFile(*inPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseCatalogSheet(f)
	if err != nil {
		return fmt.Errorf("parse catalog sheet: %w", err)
	}
	log.Printf("catalog sheet: %d products", len(entries))

	out, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Product catalog seed data generated from Excel.",
		fmt.Sprintf("-- %d products for store '%s' in batches of %d.", len(entries), *storeSlug, batchSize),
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, *storeSlug, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d products (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, *outPath)
	return nil
}

// titleCaser normalizes product and brand names for display.
var titleCaser = cases.Title(language.English)

// parseCatalogSheet reads the first sheet.
// Columns: A(0)=SKU, B(1)=Name, C(2)=Brand, D(3)=Category,
// E(4)=Unit Price, F(5)=Stock. Data starts at row index 1.
func parseCatalogSheet(f *excelize.File) ([]catalogEntry, error) {
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []catalogEntry
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 5 {
			continue
		}

		sku := strings.TrimSpace(cellVal(row, 0))
		name := strings.TrimSpace(cellVal(row, 1))
		if sku == "" || name == "" || seen[sku] {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(cellVal(row, 4)), "$"), 64)
		if err != nil || price < 0 {
			log.Printf("WARN: skipping row %d (%s): bad price %q", i+1, sku, cellVal(row, 4))
			continue
		}

		stock := 0
		if s := strings.TrimSpace(cellVal(row, 5)); s != "" {
			stock, err = strconv.Atoi(s)
			if err != nil || stock < 0 {
				log.Printf("WARN: skipping row %d (%s): bad stock %q", i+1, sku, s)
				continue
			}
		}

		seen[sku] = true
		entries = append(entries, catalogEntry{
			sku:      sku,
			name:     titleCaser.String(name),
			brand:    titleCaser.String(strings.TrimSpace(cellVal(row, 2))),
			category: strings.ToLower(strings.TrimSpace(cellVal(row, 3))),
			price:    price,
			stock:    stock,
		})
	}
	return entries, nil
}

func writeBatch(out *os.File, storeSlug string, batch []catalogEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO products (id, store_id, sku, name, brand, category, unit_price, stock_quantity) VALUES\n")

	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  (gen_random_uuid(), (SELECT id FROM stores WHERE slug = '%s'), '%s', '%s', '%s', '%s', %.2f, %d)",
			escapeSQL(storeSlug), escapeSQL(e.sku), escapeSQL(e.name),
			escapeSQL(e.brand), escapeSQL(e.category), e.price, e.stock)
	}

	b.WriteString("\nON CONFLICT (store_id, sku) DO NOTHING;\n")

	_, err := out.WriteString(b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
