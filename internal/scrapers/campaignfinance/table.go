package campaignfinance

import (
	"strconv"
	"strings"
	"sunscrape/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Row is the cleaned text of one table row's cells, in order.
type Row []string

type Table struct {
	Rows []Row
}

// ExtractTable finds the results table whose header row starts with
// signature and returns its data rows. A table holding only its header is an
// empty result, a document without such a table is a parse error.
func ExtractTable(doc *goquery.Document, signature []string) (Table, error) {
	var (
		table Table
		found bool
	)
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		rows := tableRows(t)
		header := -1
		for i, row := range rows {
			if matchesSignature(cellTexts(row), signature) {
				header = i
				break
			}
		}
		if header < 0 {
			return true
		}

		found = true
		for _, row := range rows[header+1:] {
			if isDecorative(row) {
				continue
			}
			text := cellTexts(row)
			if isBlank(text) || matchesSignature(text, signature) {
				continue
			}
			table.Rows = append(table.Rows, text)
		}
		return false
	})
	if !found {
		return Table{}, parseErrorf("", "results table (%s, ...) not found", strings.Join(signature[:min(len(signature), 3)], ", "))
	}
	return table, nil
}

// tableRows returns the rows that belong to t itself, rows of nested tables
// are left out.
func tableRows(t *goquery.Selection) []*goquery.Selection {
	var rows []*goquery.Selection
	t.ChildrenFiltered("thead, tbody, tfoot").ChildrenFiltered("tr").Each(func(_ int, row *goquery.Selection) {
		rows = append(rows, row)
	})
	t.ChildrenFiltered("tr").Each(func(_ int, row *goquery.Selection) {
		rows = append(rows, row)
	})
	return rows
}

func cellTexts(row *goquery.Selection) Row {
	var out Row
	row.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, htmlutil.Text(cell))
	})
	return out
}

func normalizeLabel(label string) string {
	return strings.ToLower(htmlutil.CleanText(label))
}

func matchesSignature(cells Row, signature []string) bool {
	if len(signature) == 0 || len(cells) < len(signature) {
		return false
	}
	for i, label := range signature {
		if normalizeLabel(cells[i]) != normalizeLabel(label) {
			return false
		}
	}
	return true
}

// isDecorative reports header-only rows and rows made of one spanning cell,
// which the portal uses for titles, totals and separators.
func isDecorative(row *goquery.Selection) bool {
	if row.ChildrenFiltered("td").Length() == 0 {
		return true
	}
	cells := row.ChildrenFiltered("td, th")
	if cells.Length() != 1 {
		return false
	}
	span, err := strconv.Atoi(strings.TrimSpace(cells.AttrOr("colspan", "1")))
	return err == nil && span > 1
}

func isBlank(cells Row) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
