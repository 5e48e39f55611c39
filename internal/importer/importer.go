package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pitara/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products with
// their variants. Rows with a handle start a product; rows without one add a
// variant to the current product.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	Handle     string
	Title      string
	Desc       string
	SKU        string
	VariantT   string
	PriceCents int64
	Currency   string
}

// Run parses CSV rows and upserts products grouped by handle.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *domain.Product
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Handle != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = &domain.Product{
				Handle:      row.Handle,
				Title:       row.Title,
				Description: row.Desc,
			}
		}

		// Variant columns apply to the current product, whether the row
		// started it or continues it.
		if current != nil && row.SKU != "" {
			current.Variants = append(current.Variants, domain.Variant{
				SKU:        row.SKU,
				Title:      row.VariantT,
				PriceCents: row.PriceCents,
				Currency:   row.Currency,
			})
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if p.Handle == "" || p.Title == "" || len(p.Variants) == 0 {
		return fmt.Errorf("invalid product row (missing required fields) for handle %q", p.Handle)
	}
	for _, v := range p.Variants {
		if v.SKU == "" || v.PriceCents <= 0 || v.Currency == "" {
			return fmt.Errorf("invalid variant row for handle %q sku %q", p.Handle, v.SKU)
		}
	}

	_, err := i.productRepo.Upsert(ctx, *p)
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Handle, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	handle := pick(record, index, "handle")
	sku := pick(record, index, "variant.sku")
	if handle == "" && sku == "" {
		return nil
	}

	var cents int64
	if centStr := pick(record, index, "variant.price_cents"); centStr != "" {
		cents, _ = strconv.ParseInt(centStr, 10, 64)
	}

	return &csvRow{
		Handle:     handle,
		Title:      pick(record, index, "title"),
		Desc:       pick(record, index, "description"),
		SKU:        sku,
		VariantT:   pick(record, index, "variant.title"),
		PriceCents: cents,
		Currency:   strings.ToUpper(pick(record, index, "variant.currency")),
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
