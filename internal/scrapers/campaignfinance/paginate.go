package campaignfinance

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sunscrape/internal/components/telemetry"
	"sunscrape/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_paginate_fetch   = "paginate.fetch"
	report_paginate_extract = "paginate.extract"
	report_paginate_row     = "paginate.skip-row"
	report_paginate_records = "paginate.records"
	report_paginate_loop    = "paginate.self-link"
)

// ResultSet accumulates the records of one query across every result page
// in the portal's order. Records are never de-duplicated.
type ResultSet[T Record] struct {
	Records []T
	// Skipped counts rows too malformed to normalize.
	Skipped int
	// Pages counts the result pages that were extracted.
	Pages int
}

func (rs ResultSet[T]) Len() int {
	return len(rs.Records)
}

var nextLabels = map[string]struct{}{
	"next":      {},
	"next page": {},
	"next >":    {},
	"next >>":   {},
	">>":        {},
	">":         {},
}

// NextPage finds the "next page" link on a result page. A missing, disabled
// or hrefless control means the page is the last one.
func NextPage(page Page) (*url.URL, bool) {
	var next *url.URL
	page.Doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if _, ok := nextLabels[strings.ToLower(htmlutil.Text(a))]; !ok {
			return true
		}
		if _, disabled := a.Attr("disabled"); disabled ||
			a.HasClass("disabled") ||
			strings.EqualFold(a.AttrOr("aria-disabled", ""), "true") {
			return true
		}
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return true
		}
		link, err := url.Parse(href)
		if err != nil {
			return true
		}
		if page.Url != nil {
			link = page.Url.ResolveReference(link)
		}
		next = link
		return false
	})
	return next, next != nil
}

// paginate fetches first and every page it links onward to, normalizing
// each results table row into a T. On failure the records of the pages
// already extracted are returned with the error.
func paginate[T Record](
	ctx context.Context,
	fetcher Fetcher,
	tel telemetry.API,
	query string,
	rt RecordType,
	first Request,
) (ResultSet[T], error) {
	var rs ResultSet[T]
	signature := layoutFor(rt).signature

	req := first
	for page := 1; ; page++ {
		res, err := fetcher.FetchPage(ctx, req)
		if err != nil {
			tel.ReportBroken(report_paginate_fetch, err, query, page)
			return rs, withPage(err, query, page)
		}
		table, err := ExtractTable(res.Doc, signature)
		if err != nil {
			tel.ReportBroken(report_paginate_extract, err, query, page)
			return rs, withPage(err, query, page)
		}
		rs.Pages++

		for i, row := range table.Rows {
			record, err := normalizeAs[T](rt, row)
			if err != nil {
				rs.Skipped++
				tel.ReportWarning(report_paginate_row, fmt.Errorf("page %d row %d: %w", page, i+1, err), query)
				continue
			}
			rs.Records = append(rs.Records, record)
		}

		next, ok := NextPage(res)
		if !ok {
			break
		}
		if res.Url != nil && next.String() == res.Url.String() {
			tel.ReportWarning(report_paginate_loop, fmt.Errorf("page %d links to itself", page), query)
			break
		}
		req = Request{Method: resty.MethodGet, Path: next.String()}
	}

	tel.ReportCount(report_paginate_records, int64(len(rs.Records)))
	return rs, nil
}
