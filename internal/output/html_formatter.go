package output

import (
	"bytes"
	_ "embed"
	"html/template"
)

// HTMLFormatter produces a standalone HTML page.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatPounds,
	"cell": htmlCell,
	"isNum": func(v any) bool {
		_, text := v.(string)
		return !text
	},
}).Parse(htmlTemplateSource))

func htmlCell(v any) string {
	if p, ok := v.(pounds); ok {
		return FormatPounds(int64(p))
	}
	return cellString(v)
}

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	tables, err := r.tables()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	data := struct {
		*Report
		Tables      []table
		GeneratedAt string
	}{r, tables, GeneratedAt().Format("2 January 2006 15:04")}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
