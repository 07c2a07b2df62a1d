package campaignfinance

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sunscrape/internal/components/chrono"
	"sunscrape/internal/components/telemetry"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const fixtureBase = "https://fixture.test"

var fixedClock = chrono.FixedTime{Time: time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)}

// resultsPage renders a portal style result page: the results table sits
// inside a layout table, is followed by a spanning totals row and by the
// next page control.
func resultsPage(header []string, rows [][]string, next string) string {
	var b strings.Builder
	b.WriteString("<html><body>\n<table class=\"layout\"><tr><td>\n")
	b.WriteString("<h2>Campaign Finance Activity</h2>\n<table border=\"1\">\n<tr>")
	for _, h := range header {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(h))
	}
	b.WriteString("</tr>\n")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>\n")
	}
	fmt.Fprintf(&b, "<tr><td colspan=\"%d\">%d record(s) displayed</td></tr>\n", len(header), len(rows))
	b.WriteString("</table>\n")
	if next != "" {
		fmt.Fprintf(&b, "<a href=\"%s\">Next</a>\n", html.EscapeString(next))
	} else {
		b.WriteString("<a class=\"disabled\">Next</a>\n")
	}
	b.WriteString("</td></tr></table>\n</body></html>")
	return b.String()
}

// contributionRows returns n distinct, valid contribution rows.
func contributionRows(offset, n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{
			"DeSantis, Ron (REP)",
			fmt.Sprintf("07/%02d/2018", (offset+i)%28+1),
			fmt.Sprintf("$%d.00", (offset+i+1)*10),
			"CHE",
			fmt.Sprintf("CONTRIBUTOR %d", offset+i),
			"123 MAIN ST",
			"TAMPA, FL 33606",
			"ATTORNEY",
			"",
		}
	}
	return rows
}

type fakeFetcher struct {
	t        *testing.T
	handle   func(req Request) (string, error)
	requests []Request
}

func newFakeFetcher(t *testing.T, handle func(req Request) (string, error)) *fakeFetcher {
	return &fakeFetcher{t: t, handle: handle}
}

func (f *fakeFetcher) requestUrl(req Request) *url.URL {
	base, err := url.Parse(fixtureBase)
	require.NoError(f.t, err)
	ref, err := url.Parse(req.Path)
	require.NoError(f.t, err)
	u := base.ResolveReference(ref)
	if req.Params != nil && req.Method != "POST" {
		u.RawQuery = req.Params.Encode()
	}
	return u
}

func (f *fakeFetcher) FetchPage(ctx context.Context, req Request) (Page, error) {
	f.requests = append(f.requests, req)
	body, err := f.handle(req)
	if err != nil {
		return Page{}, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(f.t, err)
	u := f.requestUrl(req)
	doc.Url = u
	return Page{Url: u, Doc: doc}, nil
}

func (f *fakeFetcher) FetchRaw(ctx context.Context, req Request) (RawPage, error) {
	f.requests = append(f.requests, req)
	body, err := f.handle(req)
	if err != nil {
		return RawPage{}, err
	}
	return RawPage{
		Url:         f.requestUrl(req),
		Body:        []byte(body),
		ContentType: "text/plain",
	}, nil
}

func newTestScraper(t *testing.T, handle func(req Request) (string, error)) (Scraper, *fakeFetcher, *telemetry.Recorder) {
	fetcher := newFakeFetcher(t, handle)
	rec := telemetry.NewRecorder()
	return NewScraper(fetcher, fixedClock, rec), fetcher, rec
}

// pageParam reads the "page" query parameter of a follow up request, the
// first request has none and is page 1.
func pageParam(t *testing.T, req Request) int {
	u, err := url.Parse(req.Path)
	require.NoError(t, err)
	page := u.Query().Get("page")
	if page == "" {
		return 1
	}
	var n int
	_, err = fmt.Sscanf(page, "%d", &n)
	require.NoError(t, err)
	return n
}
