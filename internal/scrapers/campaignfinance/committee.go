package campaignfinance

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sunscrape/internal/components/assert"
	"sunscrape/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"github.com/go-resty/resty/v2"
)

const (
	report_committee_search  = "committee.search"
	report_committee_details = "committee.details"
	report_committee_results = "committee.results"
)

const (
	committeeSearchPath  = "/committees/ComLkupByName.asp"
	committeeDetailsPath = "/committees/ComDetail.asp"
	committeeReportsPath = "/cgi-bin/TreFin.exe"
)

// MinCommitteeSimilarity is the lowest Jaro-Winkler similarity at which a
// search result is taken as the requested committee.
const MinCommitteeSimilarity = 0.7

type CommitteeResultType string

const (
	CommitteeContributions CommitteeResultType = "contributions"
	CommitteeExpenditures  CommitteeResultType = "expenditures"
	CommitteeOther         CommitteeResultType = "other"
	CommitteeTransfers     CommitteeResultType = "transfers"
)

func (t CommitteeResultType) queryFor() string {
	switch t {
	case CommitteeExpenditures:
		return "2"
	case CommitteeOther:
		return "3"
	case CommitteeTransfers:
		return "4"
	}
	return "1"
}

func ParseCommitteeResultType(value string) (CommitteeResultType, error) {
	t := CommitteeResultType(strings.ToLower(strings.TrimSpace(value)))
	switch t {
	case CommitteeContributions, CommitteeExpenditures, CommitteeOther, CommitteeTransfers:
		return t, nil
	}
	return "", fmt.Errorf(
		"%w: result type %q, expected contributions, expenditures, other or transfers",
		ErrInvalidCriteria, value,
	)
}

// CommitteeDetails is a committee's registration as listed on its detail
// page.
type CommitteeDetails struct {
	Account         string   `json:"account"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Status          string   `json:"status"`
	Address         string   `json:"address"`
	Phone           string   `json:"phone"`
	Chair           string   `json:"chair"`
	Treasurer       string   `json:"treasurer"`
	RegisteredAgent string   `json:"registered_agent"`
	Purpose         string   `json:"purpose"`
	Affiliates      []string `json:"affiliates"`
}

func (CommitteeDetails) Header() []string {
	return []string{
		"account", "name", "type", "status", "address", "phone", "chair",
		"treasurer", "registered_agent", "purpose", "affiliates",
	}
}

func (d CommitteeDetails) Values() []string {
	return []string{
		d.Account, d.Name, d.Type, d.Status, d.Address, d.Phone, d.Chair,
		d.Treasurer, d.RegisteredAgent, d.Purpose, strings.Join(d.Affiliates, "; "),
	}
}

type CommitteeMatch struct {
	Account    string  `json:"account"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// CommitteeResult holds a committee's details and the records of the
// requested result type, the other result set stays empty.
type CommitteeResult struct {
	Details       CommitteeDetails
	ResultType    CommitteeResultType
	Contributions ResultSet[CommitteeContribution]
	Expenditures  ResultSet[CommitteeExpenditure]
}

func accountFromHref(href *url.URL) string {
	if account := href.Query().Get("account"); account != "" {
		return account
	}
	_, after, found := strings.Cut(href.RawQuery, "=")
	if !found {
		return ""
	}
	return after
}

// SearchCommittees runs the portal's committee name search and returns every
// listed committee ranked by similarity to name.
func (s Scraper) SearchCommittees(ctx context.Context, name string) ([]CommitteeMatch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(KindScrape, "committee search", fmt.Errorf("%w: empty committee name", ErrInvalidCriteria))
	}
	searchName := name
	if len(searchName) > 50 {
		searchName = searchName[:50]
	}

	page, err := s.fetcher.FetchPage(ctx, Request{
		Method: resty.MethodGet,
		Path:   committeeSearchPath,
		Params: url.Values{
			"searchtype":    {"1"},
			"comName":       {searchName},
			"LkupTypeName":  {"L"},
			"NameSearchBtn": {"Search by Name"},
		},
	})
	if err != nil {
		s.tel.ReportBroken(report_committee_search, fmt.Errorf("fetch: %w", err), name)
		return nil, withPage(err, "committee search", 0)
	}

	// the matches are listed in the page's third table
	tables := page.Doc.Find("table")
	if tables.Length() < 3 {
		err := parseErrorf("committee search", "expected a results table, found %d tables", tables.Length())
		s.tel.ReportBroken(report_committee_search, err, name)
		return nil, err
	}

	var matches []CommitteeMatch
	for i, row := range tableRows(tables.Eq(2)) {
		if i == 0 {
			continue
		}
		link := row.ChildrenFiltered("td").First().Find("a").First()
		if link.Length() == 0 {
			continue
		}
		anchors := htmlutil.GetAnchors(page.Url, link)
		if len(anchors) == 0 {
			continue
		}
		account := accountFromHref(anchors[0].Url)
		if account == "" {
			continue
		}
		matches = append(matches, CommitteeMatch{
			Account: account,
			Name:    anchors[0].Name,
			Similarity: matchr.JaroWinkler(
				strings.ToUpper(name),
				strings.ToUpper(anchors[0].Name),
				false,
			),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches, nil
}

// FindCommittee returns the search result most similar to name.
func (s Scraper) FindCommittee(ctx context.Context, name string) (CommitteeMatch, error) {
	matches, err := s.SearchCommittees(ctx, name)
	if err != nil {
		return CommitteeMatch{}, err
	}
	if len(matches) == 0 || matches[0].Similarity < MinCommitteeSimilarity {
		s.tel.ReportWarning(report_committee_search, fmt.Errorf("no committee resembles %q", name))
		return CommitteeMatch{}, newError(KindScrape, "committee search", fmt.Errorf("%w: %q", ErrCommitteeNotFound, name))
	}
	return matches[0], nil
}

func detailCell(rows []*goquery.Selection, i int) *goquery.Selection {
	return rows[i].ChildrenFiltered("td").Eq(1)
}

// CommitteeDetails reads the registration of the committee with the given
// account number.
func (s Scraper) CommitteeDetails(ctx context.Context, account string) (CommitteeDetails, error) {
	if _, err := strconv.Atoi(strings.TrimSpace(account)); err != nil {
		return CommitteeDetails{}, newError(KindScrape, "committee details", fmt.Errorf("%w: account %q", ErrInvalidCriteria, account))
	}

	page, err := s.fetcher.FetchPage(ctx, Request{
		Method: resty.MethodGet,
		Path:   committeeDetailsPath,
		Params: url.Values{"account": {strings.TrimSpace(account)}},
	})
	if err != nil {
		s.tel.ReportBroken(report_committee_details, fmt.Errorf("fetch: %w", err), account)
		return CommitteeDetails{}, withPage(err, "committee details", 0)
	}

	table := page.Doc.Find("table").First()
	if table.Length() == 0 {
		err := parseErrorf("committee details", "details table not found")
		s.tel.ReportBroken(report_committee_details, err, account)
		return CommitteeDetails{}, err
	}
	rows := tableRows(table)
	if len(rows) < 11 {
		err := parseErrorf("committee details", "details table has %d rows, expected at least 11", len(rows))
		s.tel.ReportBroken(report_committee_details, err, account)
		return CommitteeDetails{}, err
	}

	name := htmlutil.Text(rows[0])
	if cell := detailCell(rows, 1); cell.Length() > 0 {
		name = htmlutil.Text(cell)
	}
	return CommitteeDetails{
		Account:         strings.TrimSpace(account),
		Name:            name,
		Type:            htmlutil.Text(detailCell(rows, 2)),
		Status:          htmlutil.Text(detailCell(rows, 3)),
		Address:         strings.Join(htmlutil.Lines(detailCell(rows, 4)), ", "),
		Phone:           htmlutil.Text(detailCell(rows, 5)),
		Chair:           strings.Join(htmlutil.Lines(detailCell(rows, 6)), ", "),
		Treasurer:       strings.Join(htmlutil.Lines(detailCell(rows, 7)), ", "),
		RegisteredAgent: strings.Join(htmlutil.Lines(detailCell(rows, 8)), ", "),
		Purpose:         htmlutil.Text(detailCell(rows, 9)),
		Affiliates:      htmlutil.Lines(detailCell(rows, 10)),
	}, nil
}

// committeeReportsRequest expects a match from SearchCommittees, which
// never yields one without an account.
func committeeReportsRequest(match CommitteeMatch, resultType CommitteeResultType) Request {
	assert.NotEmptyStr(match.Account)
	return Request{
		Method: resty.MethodGet,
		Path:   committeeReportsPath,
		Params: url.Values{
			"account":     {match.Account},
			"comname":     {match.Name},
			"CanCom":      {"Comm"},
			"seqnum":      {"0"},
			"queryfor":    {resultType.queryFor()},
			"queryorder":  {"DAT"},
			"queryoutput": {"1"},
			"query":       {"Submit Query Now"},
		},
	}
}

// Committee looks a committee up by name, reads its details and then its
// contributions or expenditures. When the records fail part way the details
// and the records gathered so far are returned with the error.
func (s Scraper) Committee(ctx context.Context, name string, resultType CommitteeResultType) (CommitteeResult, error) {
	resultType, err := ParseCommitteeResultType(string(resultType))
	if err != nil {
		return CommitteeResult{}, newError(KindScrape, "committee", err)
	}
	switch resultType {
	case CommitteeOther, CommitteeTransfers:
		return CommitteeResult{}, newError(KindScrape, "committee", fmt.Errorf("%w: %s", ErrUnsupportedResultType, resultType))
	}

	match, err := s.FindCommittee(ctx, name)
	if err != nil {
		return CommitteeResult{}, err
	}
	details, err := s.CommitteeDetails(ctx, match.Account)
	if err != nil {
		return CommitteeResult{}, err
	}
	if details.Name == "" {
		details.Name = match.Name
	}

	result := CommitteeResult{Details: details, ResultType: resultType}
	query := fmt.Sprintf("committee %s %s", match.Account, resultType)
	req := committeeReportsRequest(match, resultType)
	switch resultType {
	case CommitteeContributions:
		result.Contributions, err = paginate[CommitteeContribution](ctx, s.fetcher, s.tel, query, RecordCommitteeContribution, req)
	case CommitteeExpenditures:
		result.Expenditures, err = paginate[CommitteeExpenditure](ctx, s.fetcher, s.tel, query, RecordCommitteeExpenditure, req)
	}
	if err != nil {
		s.tel.ReportBroken(report_committee_results, err, match.Account)
	}
	return result, err
}
