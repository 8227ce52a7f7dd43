// Package export writes tabular data as delimited text files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format is a delimited file format
type Format string

const (
	FormatCSV Format = "csv"
	FormatTSV Format = "tsv"
)

// ErrUnknownFormat is returned for formats other than csv and tsv
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat resolves a format name, case-insensitive. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Delimiter returns the field separator of f
func (f Format) Delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	if f == FormatTSV {
		return "text/tab-separated-values"
	}
	return "text/csv"
}

// Filename returns base with the extension of f
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Writer writes records in a delimited format
type Writer struct {
	out    io.Writer
	csv    *csv.Writer
	bom    bool
	header bool
	rows   int
}

// WriterOption is a functional option for Writer configuration
type WriterOption func(*Writer)

// WithBOM prefixes the output with a UTF-8 byte order mark, which some
// spreadsheet programs need to detect the encoding
func WithBOM(bom bool) WriterOption {
	return func(w *Writer) {
		w.bom = bom
	}
}

// WithCRLF ends lines with \r\n
func WithCRLF(crlf bool) WriterOption {
	return func(w *Writer) {
		w.csv.UseCRLF = crlf
	}
}

// NewWriter creates a writer for format f
func NewWriter(out io.Writer, f Format, opts ...WriterOption) *Writer {
	w := &Writer{out: out, csv: csv.NewWriter(out)}
	w.csv.Comma = f.Delimiter()
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteHeader writes the column names. It must precede any row.
func (w *Writer) WriteHeader(columns ...string) error {
	if w.header || w.rows > 0 {
		return errors.New("header already written")
	}
	if w.bom {
		if _, err := w.out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write bom: %w", err)
		}
	}
	w.header = true
	return w.write(columns)
}

// WriteRow writes one record
func (w *Writer) WriteRow(fields ...string) error {
	if err := w.write(fields); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *Writer) write(fields []string) error {
	if err := w.csv.Write(sanitize(fields)); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Flush writes buffered data and reports any earlier write error
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

// Rows returns the number of data rows written
func (w *Writer) Rows() int {
	return w.rows
}

// sanitize neutralizes values a spreadsheet would evaluate as a formula
func sanitize(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if f != "" && strings.ContainsRune("=+-@", rune(f[0])) {
			f = "'" + f
		}
		out[i] = f
	}
	return out
}
