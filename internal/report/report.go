// Package report renders the catalog as a static document.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"pricemachine/internal/config"
	"pricemachine/internal/formatter"
	"pricemachine/internal/models"
	"pricemachine/pkg/metadata"
)

// ErrUnsupportedFormat is returned for a report format other than html or markdown.
var ErrUnsupportedFormat = errors.New("unsupported report format")

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="{{.Charset}}">
    <title>{{.Title}}</title>
</head>
<body>
    <table border="1" style="border-collapse: collapse;">
        <tr>{{range .Columns}}<th>{{.Title}}</th>{{end}}</tr>
{{- range .Rows}}
        <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
    </table>
</body>
</html>
`))

type htmlPage struct {
	Charset string
	Title   string
	Columns []formatter.Column
	Rows    [][]string
}

// Writer renders records in the configured format and encoding.
type Writer struct {
	cfg config.ReportConfig
}

// New creates a report writer.
func New(cfg config.ReportConfig) *Writer {
	return &Writer{cfg: cfg}
}

// Render returns the encoded document. Records are listed in the order given;
// callers pass them sorted by unit price.
func (w *Writer) Render(records []models.UnifiedRecord) ([]byte, error) {
	enc, err := w.encoding()
	if err != nil {
		return nil, err
	}

	charset, err := htmlindex.Name(enc)
	if err != nil {
		charset = w.cfg.Encoding
	}

	rows := formatter.RecordRows(records, 0)

	var doc string

	switch w.cfg.Format {
	case config.FormatHTML, "":
		var buf bytes.Buffer

		page := htmlPage{Charset: charset, Title: w.cfg.Title, Columns: formatter.RecordColumns, Rows: rows}
		if err := htmlTemplate.Execute(&buf, page); err != nil {
			return nil, fmt.Errorf("failed to render html: %w", err)
		}

		doc = buf.String()
	case config.FormatMarkdown:
		doc = fmt.Sprintf("# %s\n\n%s", w.cfg.Title, formatter.RenderMarkdown(formatter.RecordColumns, rows))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, w.cfg.Format)
	}

	encoder := encoding.HTMLEscapeUnsupported(enc.NewEncoder())

	out, err := encoder.String(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report as %s: %w", charset, err)
	}

	if !w.cfg.Sign {
		return []byte(out), nil
	}

	// The hash must cover the text a reader decodes, including references
	// substituted for runes the charset lacks.
	decoded, err := enc.NewDecoder().String(out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report as %s: %w", charset, err)
	}

	out, err = encoder.String(metadata.Sign(decoded, len(records)))
	if err != nil {
		return nil, fmt.Errorf("failed to encode report as %s: %w", charset, err)
	}

	return []byte(out), nil
}

// WriteFile renders records to the configured path and returns that path.
func (w *Writer) WriteFile(records []models.UnifiedRecord) (string, error) {
	data, err := w.Render(records)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(w.cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(w.cfg.Path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return w.cfg.Path, nil
}

func (w *Writer) encoding() (encoding.Encoding, error) {
	name := w.cfg.Encoding
	if name == "" {
		name = "utf-8"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("report encoding %q: %w", name, err)
	}

	return enc, nil
}
