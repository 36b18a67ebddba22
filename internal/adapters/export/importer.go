// internal/adapters/export/importer.go
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

// ErrMissingNameColumn is returned when an import has neither a name nor an
// id column.
var ErrMissingNameColumn = errors.New("import file needs a name or id column")

// columnIndex maps lowercased header names to their position.
type columnIndex map[string]int

func newColumnIndex(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	_, hasName := idx["name"]
	_, hasID := idx["id"]
	if !hasName && !hasID {
		return nil, ErrMissingNameColumn
	}
	return idx, nil
}

// item builds a row. Rows carry the raw values; quantity that fails to
// parse becomes 0 so validation reports it against the row.
func (c columnIndex) item(row int, get func(int) string) domain.Item {
	field := func(name string) string {
		if i, ok := c[name]; ok {
			return strings.TrimSpace(get(i))
		}
		return ""
	}

	name := field("name")
	if name == "" {
		name = field("id")
	}

	quantity := 1
	if raw := field("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil || f != float64(int(f)) {
				n = 0
			} else {
				n = int(f)
			}
		}
		quantity = n
	}

	return domain.Item{
		Name:     name,
		Category: field("category"),
		Quantity: quantity,
		Row:      row,
	}
}

// ParseCSV reads items from a CSV document with a header row. The header
// written by ToCSV round-trips. A missing quantity column means 1 each.
// Blank lines are skipped but still counted in each item's Row.
func ParseCSV(r io.Reader) ([]domain.Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Item{}, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	idx, err := newColumnIndex(header)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(items)+1, err)
		}
		if isBlank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		items = append(items, idx.item(line, func(i int) string {
			if i < len(record) {
				return record[i]
			}
			return ""
		}))
	}

	return items, nil
}

// ParseXLSX reads items from the first sheet of a workbook. Row is the
// spreadsheet row number.
func ParseXLSX(data []byte) ([]domain.Item, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	if len(file.Sheets) == 0 {
		return []domain.Item{}, nil
	}

	sheet := file.Sheets[0]
	var (
		idx   columnIndex
		items = make([]domain.Item, 0)
	)

	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		values := make([]string, sheet.MaxCol)
		for i := range values {
			values[i] = r.GetCell(i).String()
		}
		if isBlank(values) {
			return nil
		}

		if idx == nil {
			var err error
			idx, err = newColumnIndex(values)
			return err
		}

		items = append(items, idx.item(r.GetCoordinate()+1, func(i int) string {
			if i < len(values) {
				return values[i]
			}
			return ""
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Parse dispatches on format. PDF cannot be imported.
func Parse(format domain.ExportFormat, data []byte) ([]domain.Item, error) {
	switch format {
	case domain.ExportCSV:
		return ParseCSV(bytes.NewReader(data))
	case domain.ExportXLSX:
		return ParseXLSX(data)
	default:
		return nil, domain.NewValidationError("format", "unsupported import format: "+string(format))
	}
}

func isBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
