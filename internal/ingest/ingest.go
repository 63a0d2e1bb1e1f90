// Package ingest turns CSV and XLSX files into question/answer pairs.
package ingest

import (
	"bytes"
	"encoding/csv"
	"html"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/vulcan/internal/deck"
)

// MaxFileSize is the largest accepted import.
const MaxFileSize = 5 * 1024 * 1024

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: use .csv or .xlsx")
	ErrFileTooLarge      = errors.New("file size must be less than 5MB")
	ErrNoCards           = errors.New(`no valid question/answer pairs found; the first row needs "question" and "answer" columns`)
	ErrEmpty             = errors.New("file is empty")
)

var (
	questionHeaders = []string{"question", "q"}
	answerHeaders   = []string{"answer", "a"}
)

var policy = bluemonday.StrictPolicy()

// File reads and parses the file at path, picking the parser by extension.
func File(path string) ([]deck.Pair, error) {
	parse, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return parse(f)
}

// Reader parses r as the format implied by name.
func Reader(name string, r io.Reader) ([]deck.Pair, error) {
	parse, err := parserFor(name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read import")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return parse(bytes.NewReader(data))
}

func parserFor(name string) (func(io.Reader) ([]deck.Pair, error), error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ParseCSV, nil
	case ".xlsx":
		return ParseXLSX, nil
	}
	return nil, ErrUnsupportedFormat
}

// ParseCSV reads a header row followed by question/answer rows.
func ParseCSV(r io.Reader) ([]deck.Pair, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	return pairs(rows)
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(r io.Reader) ([]deck.Pair, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheets[0])
	}
	return pairs(rows)
}

// pairs maps rows to cards using the header row.
func pairs(rows [][]string) ([]deck.Pair, error) {
	rows = dropBlank(rows)
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	qi, ai := -1, -1
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if qi < 0 && slices.Contains(questionHeaders, h) {
			qi = i
		}
		if ai < 0 && slices.Contains(answerHeaders, h) {
			ai = i
		}
	}
	if qi < 0 || ai < 0 {
		return nil, ErrNoCards
	}

	var out []deck.Pair
	for _, row := range rows[1:] {
		q, a := clean(cell(row, qi)), clean(cell(row, ai))
		if q == "" || a == "" {
			continue
		}
		out = append(out, deck.Pair{Question: q, Answer: a})
	}
	if len(out) == 0 {
		return nil, ErrNoCards
	}
	return out, nil
}

// clean strips markup and surrounding whitespace from a cell.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func dropBlank(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
