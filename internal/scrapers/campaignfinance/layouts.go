package campaignfinance

// layout maps the positional cells of one results table to column names.
// The portal emits no usable column keys, so a change in its table layout
// only needs an update here.
type layout struct {
	// signature is the header row the table extractor looks for.
	signature []string
	columns   []string
	// minCells is the fewest cells a row may have and still carry the
	// required fields.
	minCells int
	index    map[string]int
}

func newLayout(signature, columns []string, minCells int) *layout {
	l := &layout{
		signature: signature,
		columns:   columns,
		minCells:  minCells,
		index:     make(map[string]int, len(columns)),
	}
	for i, name := range columns {
		l.index[name] = i
	}
	return l
}

const (
	colCandidate   = "candidate"
	colDate        = "date"
	colAmount      = "amount"
	colType        = "type"
	colName        = "name"
	colAddress     = "address"
	colAddress2    = "city_state_zip"
	colOccupation  = "occupation"
	colInkind      = "inkind_description"
	colPurpose     = "purpose"
	colAccountType = "account_type"
	colReportYear  = "report_year"
	colReportType  = "report_type"
)

var (
	contributionLayout = newLayout(
		[]string{"Candidate/Committee", "Date", "Amount", "Typ", "Contributor Name", "Address", "City State Zip", "Occupation", "Inkind Desc"},
		[]string{colCandidate, colDate, colAmount, colType, colName, colAddress, colAddress2, colOccupation, colInkind},
		3,
	)
	expenditureLayout = newLayout(
		[]string{"Candidate/Committee", "Date", "Amount", "Payee Name", "Address", "City State Zip", "Purpose", "Type"},
		[]string{colCandidate, colDate, colAmount, colName, colAddress, colAddress2, colPurpose, colType},
		3,
	)
	transferLayout = newLayout(
		[]string{"Candidate/Committee", "Date", "Amount", "Funds Transferred To", "Address", "City State Zip", "Nature Of Account", "Type"},
		[]string{colCandidate, colDate, colAmount, colName, colAddress, colAddress2, colAccountType, colType},
		3,
	)
	committeeContributionLayout = newLayout(
		[]string{"Rpt Yr", "Rpt Type", "Date", "Amount", "Contributor Name", "Address", "City State Zip", "Occupation", "Typ", "InKind Desc"},
		[]string{colReportYear, colReportType, colDate, colAmount, colName, colAddress, colAddress2, colOccupation, colType, colInkind},
		4,
	)
	committeeExpenditureLayout = newLayout(
		[]string{"Rpt Yr", "Rpt Type", "Date", "Amount", "Expense Paid To", "Address", "City State Zip", "Purpose", "Typ Reimb"},
		[]string{colReportYear, colReportType, colDate, colAmount, colName, colAddress, colAddress2, colPurpose, colType},
		4,
	)
)

func layoutFor(rt RecordType) *layout {
	switch rt {
	case RecordExpenditure:
		return expenditureLayout
	case RecordTransfer:
		return transferLayout
	case RecordCommitteeContribution:
		return committeeContributionLayout
	case RecordCommitteeExpenditure:
		return committeeExpenditureLayout
	}
	return contributionLayout
}

// cells is one raw row read through a layout. Missing trailing cells read as
// empty, extra cells are never read.
type cells struct {
	layout *layout
	values Row
}

func (c cells) get(column string) string {
	i, ok := c.layout.index[column]
	if !ok || i >= len(c.values) {
		return ""
	}
	return c.values[i]
}
