package menu

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Required columns of the menu CSV. Header matching is case-insensitive.
const (
	columnName        = "products"
	columnPrice       = "price"
	columnDescription = "description"
)

// Load reads the menu CSV and builds the index. Any structural problem
// (missing column, non-numeric price) is a startup failure.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()

	ix, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("menu file %s: %w", path, err)
	}
	return ix, nil
}

// Parse reads CSV rows of {products, price, description} from r.
func Parse(r io.Reader) (*Index, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{columnName, columnPrice, columnDescription} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var entries []Entry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		rawPrice := strings.TrimSpace(record[cols[columnPrice]])
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: non-numeric price %q", line, rawPrice)
		}

		entries = append(entries, Entry{
			Name:        record[cols[columnName]],
			Price:       price,
			Description: strings.TrimSpace(record[cols[columnDescription]]),
		})
	}

	return NewIndex(entries)
}
