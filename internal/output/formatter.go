package output

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// Formatter renders a report in one output format.
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"csv":     CSVFormatter{},
	"json":    JSONFormatter{},
	"html":    HTMLFormatter{},
	"xlsx":    XLSXFormatter{},
}

var formatAliases = map[string]string{
	"text":  "console",
	"table": "console",
	"excel": "xlsx",
}

// Extensions maps a formatter name to the file extension of its output.
var Extensions = map[string]string{
	"console": "txt",
	"csv":     "csv",
	"json":    "json",
	"html":    "html",
	"xlsx":    "xlsx",
}

// GetFormatterByName returns the formatter with the given name or alias, or
// nil if there is none.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists registered formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AvailableFormatAliases lists the alternative names accepted by
// GetFormatterByName.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	return aliases
}

// WriteFormatted formats r and writes it to a timestamped file in the
// current directory, returning the file name.
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	filename := fmt.Sprintf("oncost_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := WriteFile(f, r, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// WriteFile formats r and writes it to path.
func WriteFile(f Formatter, r *Report, path string) error {
	data, err := f.Format(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
