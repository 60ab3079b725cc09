package output

import (
	"bytes"
	"encoding/csv"
)

// CSVFormatter writes each section of a report as a CSV table, separated by
// a blank line. Amounts are plain integers.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	tables, err := r.tables()
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	for i, t := range tables {
		if i > 0 {
			buf.WriteString("\n")
		}
		w := csv.NewWriter(buf)
		if err := w.Write(t.Headings); err != nil {
			return nil, err
		}
		for _, row := range t.Rows {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = cellString(v)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
