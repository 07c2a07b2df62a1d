package campaignfinance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const contributionsPortalFixture = `<html><body>
<form action="/cgi-bin/contrib.exe">
<select name="election">
	<option value="All">All</option>
	<option value="20241105-GEN">2024 General Election</option>
	<option value="20240820-PRI">2024 Primary Election</option>
	<option value="20221108-GEN">2022 General Election</option>
</select>
<select name="committee">
	<option value="All">All</option>
	<option value="PAC">Political Committee</option>
	<option value="PTY">Party Executive Committee</option>
</select>
</form>
</body></html>`

const candidateDownloadFixture = `<html><body>
<form action="extractCanList.asp" method="post">
<select name="elecID">
	<option value="">-- Select an election --</option>
	<option value="20241105-GEN">2024 General Election</option>
	<option value="20221108-GEN">2022 General Election</option>
</select>
</form>
</body></html>`

func TestElectionIDs(t *testing.T) {
	scraper, fetcher, _ := newTestScraper(t, func(req Request) (string, error) {
		return contributionsPortalFixture, nil
	})

	elections, err := scraper.ElectionIDs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []ElectionEntry{
		{Id: "20241105-GEN", Label: "2024 General Election"},
		{Id: "20240820-PRI", Label: "2024 Primary Election"},
		{Id: "20221108-GEN", Label: "2022 General Election"},
	}, elections)
	require.Equal(t, "/campaign-finance/contributions/", fetcher.requests[0].Path)
}

func TestAvailableElections(t *testing.T) {
	scraper, fetcher, _ := newTestScraper(t, func(req Request) (string, error) {
		return candidateDownloadFixture, nil
	})

	elections, err := scraper.AvailableElections(context.Background())
	require.NoError(t, err)
	require.Equal(t, []ElectionEntry{
		{Id: "20241105-GEN", Label: "2024 General Election"},
		{Id: "20221108-GEN", Label: "2022 General Election"},
	}, elections)
	require.Equal(t, candidateDownloadPage, fetcher.requests[0].Path)
}

func TestCommitteeTypes(t *testing.T) {
	scraper, _, _ := newTestScraper(t, func(req Request) (string, error) {
		return contributionsPortalFixture, nil
	})

	types, err := scraper.CommitteeTypes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []CommitteeType{
		{Code: "PAC", Label: "Political Committee"},
		{Code: "PTY", Label: "Party Executive Committee"},
	}, types)
}

func TestDirectoryMissingDropdown(t *testing.T) {
	scraper, _, rec := newTestScraper(t, func(req Request) (string, error) {
		return "<html><body><p>The search form moved.</p></body></html>", nil
	})

	_, err := scraper.ElectionIDs(context.Background())
	require.True(t, errors.Is(err, ErrParse))
	require.Len(t, rec.Find("broken", report_directory_elections), 1)
}
