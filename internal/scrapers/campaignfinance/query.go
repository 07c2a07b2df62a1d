package campaignfinance

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-module/carbon/v2"
)

type FilingType int

const (
	Contributions FilingType = iota
	Expenditures
	Transfers
)

func (f FilingType) String() string {
	switch f {
	case Contributions:
		return "contributions"
	case Expenditures:
		return "expenditures"
	case Transfers:
		return "transfers"
	}
	return fmt.Sprintf("filing(%d)", int(f))
}

// endpoint is the cgi program that answers searches of this filing type.
func (f FilingType) endpoint() string {
	switch f {
	case Expenditures:
		return "/cgi-bin/expend.exe"
	case Transfers:
		return "/cgi-bin/FundXfers.exe"
	}
	return "/cgi-bin/contrib.exe"
}

// portal is the search form page that carries the election and committee
// dropdowns for this filing type.
func (f FilingType) portal() string {
	return "/campaign-finance/" + f.String() + "/"
}

// Only the contributions search accepts a date range or a contributor name.
func (f FilingType) supportsDateRange() bool {
	return f == Contributions
}

func (f FilingType) supportsContributor() bool {
	return f == Contributions
}

func (f FilingType) recordType() RecordType {
	switch f {
	case Expenditures:
		return RecordExpenditure
	case Transfers:
		return RecordTransfer
	}
	return RecordContribution
}

// SearchCriteria narrows a filing search. Every field is optional, From and
// To accept MM/DD/YYYY, M/D/YYYY, YYYY-MM-DD or RFC3339.
type SearchCriteria struct {
	CandidateFirst string
	CandidateLast  string
	// CommitteeName matches partially.
	CommitteeName string
	From          string
	To            string
	ElectionID    string
	// AllTime removes every date restriction, including a From/To range.
	AllTime bool

	ContributorFirst string
	ContributorLast  string
}

// portalDateLayout is how the search forms expect dates.
const portalDateLayout = "01/02/2006"

const (
	isoDateLayout   = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05Z07:00"
)

var criteriaDateLayouts = []string{
	portalDateLayout,
	"1/2/2006",
	isoDateLayout,
	timestampLayout,
}

// FormatPortalDate converts a user supplied date into MM/DD/YYYY. The date is
// never shifted into the host's timezone.
func FormatPortalDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for _, layout := range criteriaDateLayouts {
		c := carbon.ParseByLayout(value, layout, carbon.UTC)
		if c.Error != nil || c.IsInvalid() {
			continue
		}
		if layout == timestampLayout {
			// the calendar date as written in the timestamp's own offset
			c = carbon.ParseByLayout(value[:len(isoDateLayout)], isoDateLayout, carbon.UTC)
		}
		return c.ToFormatString("m/d/Y", carbon.UTC), nil
	}
	return "", fmt.Errorf("%w: unrecognized date %q", ErrInvalidCriteria, value)
}

func defaultParams(ft FilingType) url.Values {
	params := url.Values{
		"election":        {"All"},
		"search_on":       {"1"},
		"CanFName":        {""},
		"CanLName":        {""},
		"CanNameSrch":     {"2"},
		"office":          {"All"},
		"cdistrict":       {""},
		"cgroup":          {""},
		"party":           {"All"},
		"ComName":         {""},
		"ComNameSrch":     {"2"},
		"committee":       {"All"},
		"cfname":          {""},
		"clname":          {""},
		"namesearch":      {"2"},
		"ccity":           {""},
		"czipcode":        {""},
		"cdollar_minimum": {""},
		"cdollar_maximum": {""},
		"rowlimit":        {""},
		"csort2":          {"CAN"},
		// 1 asks for the paged html result tables
		"queryformat": {"1"},
	}
	switch ft {
	case Contributions:
		params.Set("cstate", "")
		params.Set("coccupation", "")
		params.Set("csort1", "NAM")
	default:
		params.Set("ccstate", "")
		params.Set("cpurpose", "")
		params.Set("csort1", "DAT")
	}
	return params
}

// BuildParams produces the exact form parameters the portal expects for a
// search of filing type ft. Criteria the filing type does not support are
// dropped, see DroppedCriteria.
func BuildParams(ft FilingType, criteria SearchCriteria) (url.Values, error) {
	params := defaultParams(ft)

	if criteria.CandidateFirst != "" {
		params.Set("CanFName", strings.TrimSpace(criteria.CandidateFirst))
		params.Set("election", "All")
	}
	if criteria.CandidateLast != "" {
		params.Set("CanLName", strings.TrimSpace(criteria.CandidateLast))
		params.Set("election", "All")
	}
	if criteria.CommitteeName != "" {
		params.Set("ComName", strings.TrimSpace(criteria.CommitteeName))
		params.Set("ComNameSrch", "1")
		params.Set("namesearch", "1")
		params.Set("office", "All")
		params.Set("election", "All")
	}

	if ft.supportsContributor() {
		if criteria.ContributorFirst != "" {
			params.Set("cfname", strings.TrimSpace(criteria.ContributorFirst))
		}
		if criteria.ContributorLast != "" {
			params.Set("clname", strings.TrimSpace(criteria.ContributorLast))
		}
	}

	from, err := FormatPortalDate(criteria.From)
	if err != nil {
		return nil, newError(KindScrape, ft.String(), err)
	}
	to, err := FormatPortalDate(criteria.To)
	if err != nil {
		return nil, newError(KindScrape, ft.String(), err)
	}
	if ft.supportsDateRange() && !criteria.AllTime && (from != "" || to != "") {
		params.Set("cdatefrom", from)
		params.Set("cdateto", to)
		params.Set("election", "All")
	}

	if criteria.AllTime {
		params.Set("election", "All")
	}
	if criteria.ElectionID != "" {
		params.Set("election", strings.TrimSpace(criteria.ElectionID))
	}
	return params, nil
}

// DroppedCriteria names the criteria BuildParams ignores for filing type ft.
func DroppedCriteria(ft FilingType, criteria SearchCriteria) []string {
	var dropped []string
	if !ft.supportsDateRange() {
		if criteria.From != "" {
			dropped = append(dropped, "from date")
		}
		if criteria.To != "" {
			dropped = append(dropped, "to date")
		}
	} else if criteria.AllTime && (criteria.From != "" || criteria.To != "") {
		dropped = append(dropped, "date range (all time requested)")
	}
	if !ft.supportsContributor() {
		if criteria.ContributorFirst != "" {
			dropped = append(dropped, "contributor first name")
		}
		if criteria.ContributorLast != "" {
			dropped = append(dropped, "contributor last name")
		}
	}
	return dropped
}
