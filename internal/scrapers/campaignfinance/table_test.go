package campaignfinance

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractTable(t *testing.T) {
	rows := [][]string{
		{"DeSantis, Ron (REP)", "07/18/2018", "$500.00", "CHE", "SMITH,&nbsp;JOHN", "123 MAIN ST<br>APT 4", "TAMPA, FL 33606", "ATTORNEY", ""},
		{"", "", "", "", "", "", "", "", ""},
		{"Gillum, Andrew (DEM)", "07/19/2018", "$25.00"},
	}
	doc := parseDoc(t, resultsPage(contributionLayout.signature, rows, ""))

	table, err := ExtractTable(doc, contributionLayout.signature)
	require.NoError(t, err)
	require.Equal(t, []Row{
		{"DeSantis, Ron (REP)", "07/18/2018", "$500.00", "CHE", "SMITH, JOHN", "123 MAIN ST APT 4", "TAMPA, FL 33606", "ATTORNEY", ""},
		{"Gillum, Andrew (DEM)", "07/19/2018", "$25.00"},
	}, table.Rows)
}

func TestExtractTableEmptyIsNotAnError(t *testing.T) {
	doc := parseDoc(t, resultsPage(contributionLayout.signature, nil, ""))

	table, err := ExtractTable(doc, contributionLayout.signature)
	require.NoError(t, err)
	require.Empty(t, table.Rows)
}

func TestExtractTableMissing(t *testing.T) {
	// an expenditures table does not satisfy the contributions signature
	doc := parseDoc(t, resultsPage(expenditureLayout.signature, [][]string{{"a", "b", "c"}}, ""))

	_, err := ExtractTable(doc, contributionLayout.signature)
	require.True(t, errors.Is(err, ErrParse))
	require.True(t, errors.Is(err, ErrScrape))

	_, err = ExtractTable(parseDoc(t, "<html><body><p>Service unavailable</p></body></html>"), contributionLayout.signature)
	require.True(t, errors.Is(err, ErrParse))
}

func TestExtractTableSkipsRepeatedHeaders(t *testing.T) {
	body := `<table>
		<tr><td colspan="3">Expenditures for DeSantis, Ron</td></tr>
		<tr><th>Rpt Yr</th><th>Rpt Type</th><th>Date</th><th>Amount</th></tr>
		<tr><td>2018</td><td>P7</td><td>08/01/2018</td><td>$5.00</td></tr>
		<tr><th>Rpt Yr</th><th>Rpt Type</th><th>Date</th><th>Amount</th></tr>
		<tr><td>2018</td><td>P8</td><td>08/02/2018</td><td>$6.00</td></tr>
	</table>`

	table, err := ExtractTable(parseDoc(t, body), []string{"rpt yr", "RPT TYPE", "Date"})
	require.NoError(t, err)
	require.Equal(t, []Row{
		{"2018", "P7", "08/01/2018", "$5.00"},
		{"2018", "P8", "08/02/2018", "$6.00"},
	}, table.Rows)
}
