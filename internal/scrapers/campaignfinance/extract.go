package campaignfinance

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// SourceElectionColumn is appended to merged candidate extracts and holds
// the election that produced each row.
const SourceElectionColumn = "_source_election"

// Extract is a bulk download converted to rows, with fields in the order
// the portal wrote them.
type Extract struct {
	Header []string
	Rows   [][]string
}

func (e Extract) Len() int {
	return len(e.Rows)
}

// Column returns the position of a header column, or -1.
func (e Extract) Column(name string) int {
	for i, h := range e.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func decodeExtract(body []byte) (string, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if utf8.Valid(body) {
		return string(body), nil
	}
	// extracts are produced on windows, fall back to its code page
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func looksLikeHtml(body []byte, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body[:min(len(body), 512)]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html"))
}

// ParseExtract reads a tab delimited extract. Quotes carry no meaning in
// these files, a field runs from one tab to the next. Blank lines are
// dropped, short rows are padded to the header width.
func ParseExtract(body []byte) (Extract, error) {
	text, err := decodeExtract(body)
	if err != nil {
		return Extract{}, fmt.Errorf("decode extract: %w", err)
	}

	var extract Extract
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if extract.Header == nil {
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			extract.Header = trimEmptyTail(fields)
			continue
		}
		extract.Rows = append(extract.Rows, fitRow(fields, len(extract.Header)))
	}
	if len(extract.Header) == 0 {
		return Extract{}, fmt.Errorf("extract has no header line")
	}
	return extract, nil
}

func trimEmptyTail(fields []string) []string {
	end := len(fields)
	for end > 0 && strings.TrimSpace(fields[end-1]) == "" {
		end--
	}
	return fields[:end]
}

// fitRow pads a row to width. Extra trailing fields are kept only when they
// hold data.
func fitRow(fields []string, width int) []string {
	if len(fields) > width {
		fields = append(fields[:width:width], trimEmptyTail(fields[width:])...)
	}
	for len(fields) < width {
		fields = append(fields, "")
	}
	return fields
}

type mergeColumn struct {
	name string
	// occurrence tells repeated column names apart within one header.
	occurrence int
}

func mergeColumns(header []string) []mergeColumn {
	seen := map[string]int{}
	columns := make([]mergeColumn, len(header))
	for i, name := range header {
		columns[i] = mergeColumn{name: name, occurrence: seen[name]}
		seen[name]++
	}
	return columns
}

// mergeExtracts concatenates extracts under the first seen union of their
// columns followed by the provenance column. A column name repeated within
// one header keeps a position per repetition.
func mergeExtracts(parts []Extract, sources []string) Extract {
	var (
		header   []string
		position = map[mergeColumn]int{}
		columns  = make([][]mergeColumn, len(parts))
	)
	for i, part := range parts {
		columns[i] = mergeColumns(part.Header)
		for _, column := range columns[i] {
			if _, ok := position[column]; ok {
				continue
			}
			position[column] = len(header)
			header = append(header, column.name)
		}
	}
	width := len(header)
	merged := Extract{Header: append(header, SourceElectionColumn)}

	for i, part := range parts {
		for _, row := range part.Rows {
			out := make([]string, width+1)
			for j, column := range columns[i] {
				if j < len(row) {
					out[position[column]] = row[j]
				}
			}
			out[width] = sources[i]
			merged.Rows = append(merged.Rows, out)
		}
	}
	return merged
}

func writeCsv(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	err := writer.Write(header)
	if err != nil {
		return err
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return err
	}
	return writer.Error()
}

// writeCsvFile writes a csv file at path. A file that fails mid write is
// left in place.
func writeCsvFile(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}()
	return writeCsv(f, header, rows)
}

// WriteCsv writes the extract as csv.
func (e Extract) WriteCsv(w io.Writer) error {
	return writeCsv(w, e.Header, e.Rows)
}
