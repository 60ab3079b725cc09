package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// XLSXFormatter writes a workbook with a summary sheet and one sheet per
// report section. Amounts are stored as numbers.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(r *Report) ([]byte, error) {
	tables, err := r.tables()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	summary := [][]any{{r.Title}, {"Generated", GeneratedAt().Format("2006-01-02 15:04")}}
	if r.Scheme != "" {
		summary = append(summary, []any{"Scheme", string(r.Scheme)})
	}
	if emp := r.Employment; emp != nil {
		summary = append(summary,
			[]any{"Grade", string(emp.Grade)},
			[]any{"Start date", emp.StartDate.Format("2006-01-02")},
			[]any{"Until date", emp.UntilDate.Format("2006-01-02")},
		)
	}
	summary = append(summary, []any{})
	for _, a := range r.Assumptions {
		summary = append(summary, []any{a})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}

	for _, t := range tables {
		if _, err := f.NewSheet(t.Name); err != nil {
			return nil, err
		}
		rows := make([][]any, 0, len(t.Rows)+len(t.Notes)+2)
		heading := make([]any, len(t.Headings))
		for i, h := range t.Headings {
			heading[i] = h
		}
		rows = append(rows, heading)
		for _, row := range t.Rows {
			cells := make([]any, len(row))
			for i, v := range row {
				if p, ok := v.(pounds); ok {
					v = int64(p)
				}
				cells[i] = v
			}
			rows = append(rows, cells)
		}
		if len(t.Notes) > 0 {
			rows = append(rows, []any{})
			for _, note := range t.Notes {
				rows = append(rows, []any{note})
			}
		}
		if err := writeRows(f, t.Name, rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
