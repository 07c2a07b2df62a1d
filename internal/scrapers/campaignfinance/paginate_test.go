package campaignfinance

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginateSinglePage(t *testing.T) {
	scraper, fetcher, _ := newTestScraper(t, func(req Request) (string, error) {
		return resultsPage(contributionLayout.signature, contributionRows(0, 4), ""), nil
	})

	rs, err := scraper.Contributions(context.Background(), SearchCriteria{CandidateLast: "DeSantis"})
	require.NoError(t, err)
	require.Len(t, fetcher.requests, 1)
	require.Equal(t, 1, rs.Pages)
	require.Equal(t, 4, rs.Len())
	require.Zero(t, rs.Skipped)
}

func TestPaginateFollowsNextUntilAbsent(t *testing.T) {
	for _, pages := range []int{2, 3, 5} {
		t.Run(fmt.Sprintf("%d pages", pages), func(t *testing.T) {
			const perPage = 3
			scraper, fetcher, _ := newTestScraper(t, func(req Request) (string, error) {
				page := pageParam(t, req)
				next := ""
				if page < pages {
					next = fmt.Sprintf("contrib.exe?page=%d", page+1)
				}
				return resultsPage(contributionLayout.signature, contributionRows((page-1)*perPage, perPage), next), nil
			})

			rs, err := scraper.Contributions(context.Background(), SearchCriteria{CandidateLast: "DeSantis"})
			require.NoError(t, err)
			require.Len(t, fetcher.requests, pages)
			require.Equal(t, pages, rs.Pages)
			require.Equal(t, pages*perPage, rs.Len())

			// fetch order is kept and nothing is repeated
			for i, record := range rs.Records {
				require.Equal(t, fmt.Sprintf("CONTRIBUTOR %d", i), record.ContributorName)
			}

			follow, err := url.Parse(fetcher.requests[1].Path)
			require.NoError(t, err)
			require.Equal(t, "/cgi-bin/contrib.exe", follow.Path)
			require.Equal(t, "2", follow.Query().Get("page"))
		})
	}
}

func TestPaginateCountsSkippedRows(t *testing.T) {
	rows := contributionRows(0, 10)
	rows[4] = []string{"DeSantis, Ron (REP)", "07/18/2018"}

	scraper, _, rec := newTestScraper(t, func(req Request) (string, error) {
		return resultsPage(contributionLayout.signature, rows, ""), nil
	})

	rs, err := scraper.Contributions(context.Background(), SearchCriteria{})
	require.NoError(t, err)
	require.Equal(t, 9, rs.Len())
	require.Equal(t, 1, rs.Skipped)
	require.Len(t, rec.Find("warning", report_paginate_row), 1)

	counts := rec.Find("count", report_paginate_records)
	require.Len(t, counts, 1)
	require.EqualValues(t, 9, counts[0].Count)
}

func TestPaginateKeepsPartialResultsOnHttpFailure(t *testing.T) {
	scraper, fetcher, _ := newTestScraper(t, func(req Request) (string, error) {
		page := pageParam(t, req)
		if page == 3 {
			return "", httpStatusError(503, fmt.Errorf("GET contrib.exe: 503 Service Unavailable"))
		}
		return resultsPage(
			contributionLayout.signature,
			contributionRows((page-1)*2, 2),
			fmt.Sprintf("contrib.exe?page=%d", page+1),
		), nil
	})

	rs, err := scraper.Contributions(context.Background(), SearchCriteria{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrHTTP))
	require.True(t, errors.Is(err, ErrScrape))
	require.False(t, errors.Is(err, ErrParse))

	var scrapeErr *Error
	require.True(t, errors.As(err, &scrapeErr))
	require.Equal(t, 3, scrapeErr.Page)
	require.Equal(t, 503, scrapeErr.StatusCode)
	require.Equal(t, "contributions", scrapeErr.Query)

	require.Len(t, fetcher.requests, 3)
	require.Equal(t, 2, rs.Pages)
	require.Equal(t, 4, rs.Len())
}

func TestPaginateMissingTableIsParseError(t *testing.T) {
	scraper, _, _ := newTestScraper(t, func(req Request) (string, error) {
		return "<html><body><h1>Down for maintenance</h1></body></html>", nil
	})

	rs, err := scraper.Transfers(context.Background(), SearchCriteria{})
	require.True(t, errors.Is(err, ErrParse))
	require.False(t, errors.Is(err, ErrHTTP))
	require.Zero(t, rs.Len())

	var scrapeErr *Error
	require.True(t, errors.As(err, &scrapeErr))
	require.Equal(t, 1, scrapeErr.Page)
	require.Equal(t, "transfers", scrapeErr.Query)
}

func TestPaginateZeroResults(t *testing.T) {
	scraper, _, _ := newTestScraper(t, func(req Request) (string, error) {
		return resultsPage(expenditureLayout.signature, nil, ""), nil
	})

	rs, err := scraper.Expenditures(context.Background(), SearchCriteria{CandidateLast: "Nobody"})
	require.NoError(t, err)
	require.Zero(t, rs.Len())
	require.Equal(t, 1, rs.Pages)
}

func TestNextPage(t *testing.T) {
	base, err := url.Parse("https://fixture.test/cgi-bin/expend.exe?election=All")
	require.NoError(t, err)

	testCases := []struct {
		body     string
		expected string
	}{
		{body: `<a href="expend.exe?page=2">Next</a>`, expected: "https://fixture.test/cgi-bin/expend.exe?page=2"},
		{body: `<a href="/cgi-bin/expend.exe?page=9"> NEXT PAGE </a>`, expected: "https://fixture.test/cgi-bin/expend.exe?page=9"},
		{body: `<a href="expend.exe?page=2">&gt;&gt;</a>`, expected: "https://fixture.test/cgi-bin/expend.exe?page=2"},
		{body: `<a href="expend.exe?page=2" class="btn disabled">Next</a>`},
		{body: `<a href="expend.exe?page=2" disabled>Next</a>`},
		{body: `<a href="#">Next</a>`},
		{body: `<a>Next</a>`},
		{body: `<a href="expend.exe?page=1">Previous</a>`},
		{body: ``},
	}
	for _, test := range testCases {
		next, ok := NextPage(Page{Url: base, Doc: parseDoc(t, test.body)})
		if test.expected == "" {
			require.False(t, ok, test.body)
			continue
		}
		require.True(t, ok, test.body)
		require.Equal(t, test.expected, next.String())
	}
}
