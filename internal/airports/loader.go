package airports

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/Domenick1991/travelplanner/internal/domain"
)

var requiredColumns = []string{"code", "name", "country", "city", "state"}

// Load reads the delimited airport reference table at path. The delimiter is
// auto-detected from the header line; rows whose code is not exactly three
// characters are discarded. Any structural problem is a fatal configuration
// error for the caller.
func Load(path string) (*Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open airport table: %w", err)
	}
	defer f.Close()

	header, err := readHeaderLine(f)
	if err != nil {
		return nil, err
	}

	delimiter := detectDelimiter(header)

	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("rewind airport table: %w", err)
	}

	reader := csv.NewReader(f)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse airport table: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("airport table %s has no data rows", path)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("airport table %s: %w", path, err)
	}

	records := make([]domain.AirportRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := domain.AirportRecord{
			Code:    field(row, columns["code"]),
			Name:    field(row, columns["name"]),
			Country: field(row, columns["country"]),
			City:    field(row, columns["city"]),
			State:   field(row, columns["state"]),
		}
		if len(rec.Code) != 3 {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("airport table %s has no usable rows", path)
	}

	return NewResolver(records), nil
}

func readHeaderLine(f *os.File) (string, error) {
	buf := make([]byte, 4096)
	n, err := f.Read(buf)
	if n == 0 {
		return "", fmt.Errorf("read airport table header: %w", err)
	}
	header := string(buf[:n])
	if idx := strings.IndexByte(header, '\n'); idx >= 0 {
		header = header[:idx]
	}
	return header, nil
}

func detectDelimiter(header string) rune {
	best := ','
	bestCount := strings.Count(header, ",")
	for _, candidate := range []rune{';', '\t', '|'} {
		if count := strings.Count(header, string(candidate)); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return columns, nil
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
