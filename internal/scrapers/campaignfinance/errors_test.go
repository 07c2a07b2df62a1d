package campaignfinance

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	testCases := []struct {
		err    error
		http   bool
		parse  bool
		target error
	}{
		{err: httpStatusError(502, fmt.Errorf("bad gateway")), http: true},
		{err: parseErrorf("contributions", "results table not found"), parse: true},
		{err: newError(KindScrape, "all candidates", ErrNoElections), target: ErrNoElections},
		{err: withPage(fmt.Errorf("wrapped: %w", ErrCommitteeNotFound), "committee", 0), target: ErrCommitteeNotFound},
	}
	for _, test := range testCases {
		require.True(t, errors.Is(test.err, ErrScrape), test.err.Error())
		require.Equal(t, test.http, errors.Is(test.err, ErrHTTP), test.err.Error())
		require.Equal(t, test.parse, errors.Is(test.err, ErrParse), test.err.Error())
		if test.target != nil {
			require.True(t, errors.Is(test.err, test.target), test.err.Error())
		}
	}
}

func TestWithPageKeepsExistingContext(t *testing.T) {
	original := &Error{Kind: KindParse, Query: "transfers", Page: 2, Err: fmt.Errorf("missing")}
	annotated := withPage(original, "contributions", 7)
	require.EqualError(t, annotated, "campaign finance: parse error: query transfers: page 2: missing")

	status := httpStatusError(500, fmt.Errorf("boom"))
	annotated = withPage(status, "expenditures", 3)
	require.EqualError(t, annotated, "campaign finance: http error: query expenditures: page 3: status 500: boom")
	require.Zero(t, status.Page)
}
