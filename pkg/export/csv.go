package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// File is a rendered export ready to be served as a download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// CSV renders a header row plus data rows as a CSV download. Rows shorter
// than the header are padded with empty cells.
func CSV(name string, headers []string, rows [][]string) (*File, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				record[i] = row[i]
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &File{Name: name + ".csv", ContentType: "text/csv", Data: buf.Bytes()}, nil
}
