// Package ingest turns uploaded lead files into header-keyed rows.
//
// Row policy, shared by every format:
//   - the first non-blank row is the header; its cells are used verbatim as keys
//   - blank rows are skipped
//   - a row shorter than the header gets "" for each missing column
//   - cells beyond the header are kept under OverflowKey, re-encoded as one CSV record
//   - when header names repeat, the rightmost column wins
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// OverflowKey holds cells that have no header column.
const OverflowKey = "_overflow"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row maps header names to cell text.
type Row map[string]string

// Format identifies an upload encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultUnzipSizeLimit caps the uncompressed size of a workbook when no
// limit is given.
const DefaultUnzipSizeLimit = 100 << 20

// excelize refuses an XML part limit above the total limit.
const maxUnzipXMLSizeLimit = 16 << 20

// zipMagic starts every .xlsx workbook.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// Options tunes Parse.
type Options struct {
	// UnzipSizeLimit caps the uncompressed workbook size. Zero means
	// DefaultUnzipSizeLimit.
	UnzipSizeLimit int64
}

// DetectFormat picks the format from the content. Valid UTF-8 is always CSV;
// only non-text bytes starting with the zip signature are read as a workbook.
func DetectFormat(data []byte) Format {
	if !utf8.Valid(data) && bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// Parse decodes data according to its detected format. The client's file
// name plays no part: text that is not UTF-8 and not a workbook fails with
// ErrDecode.
func Parse(data []byte, opts Options) ([]Row, Format, error) {
	format := DetectFormat(data)
	var (
		rows []Row
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = ParseXLSX(data, opts.UnzipSizeLimit)
	default:
		rows, err = ParseCSV(data)
	}
	return rows, format, err
}

// ParseCSV decodes UTF-8 CSV text. Empty input yields an empty, non-nil slice.
func ParseCSV(data []byte) ([]Row, error) {
	const op = "ingest.parse_csv"
	if !utf8.Valid(data) {
		return nil, newKind(op, ErrDecode, "file is not valid UTF-8 text")
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, wrapKind(op, ErrInvalidInput, err)
	}
	return buildRows(records)
}

// ParseXLSX reads the first worksheet of an .xlsx workbook, refusing to
// inflate more than unzipLimit bytes (DefaultUnzipSizeLimit when <= 0).
func ParseXLSX(data []byte, unzipLimit int64) ([]Row, error) {
	const op = "ingest.parse_xlsx"
	if len(data) == 0 {
		return []Row{}, nil
	}
	if unzipLimit <= 0 {
		unzipLimit = DefaultUnzipSizeLimit
	}
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{
		UnzipSizeLimit:    unzipLimit,
		UnzipXMLSizeLimit: min(unzipLimit, maxUnzipXMLSizeLimit),
	})
	if err != nil {
		return nil, wrapKind(op, ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, newKind(op, ErrInvalidInput, "workbook has no sheets")
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, wrapKind(op, ErrInvalidInput, err)
	}
	nonBlank := records[:0]
	for _, rec := range records {
		if !isBlank(rec) {
			nonBlank = append(nonBlank, rec)
		}
	}
	return buildRows(nonBlank)
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if cell != "" {
			return false
		}
	}
	return true
}

func buildRows(records [][]string) ([]Row, error) {
	rows := make([]Row, 0, max(len(records)-1, 0))
	if len(records) == 0 {
		return rows, nil
	}
	header := records[0]
	for _, rec := range records[1:] {
		row := make(Row, len(header)+1)
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			} else {
				row[name] = ""
			}
		}
		if len(rec) > len(header) {
			extra, err := encodeRecord(rec[len(header):])
			if err != nil {
				return nil, fmt.Errorf("ingest.build_rows: %w", err)
			}
			row[OverflowKey] = extra
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func encodeRecord(cells []string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cells); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
