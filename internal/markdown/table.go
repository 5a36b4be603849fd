package markdown

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/teemow/drive2md/internal/fault"
)

// delimitedToMarkdown renders CSV or TSV content as a Markdown table with
// the first record as the header row.
func delimitedToMarkdown(data []byte, comma rune) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return "", fault.New(fault.ConversionError, "content declared as delimited text could not be parsed: %v", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	columnCount := 0
	for _, record := range records {
		if len(record) > columnCount {
			columnCount = len(record)
		}
	}

	var rows []string
	for _, record := range records {
		cells := make([]string, columnCount)
		for i := 0; i < columnCount; i++ {
			if i < len(record) {
				cells[i] = escapeTableCell(strings.TrimSpace(record[i]))
			}
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
	}

	separator := "|" + strings.Repeat(" --- |", columnCount)
	out := []string{rows[0], separator}
	out = append(out, rows[1:]...)
	return strings.Join(out, "\n"), nil
}
