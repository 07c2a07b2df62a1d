package campaignfinance

import (
	"strconv"
)

// RecordType tags the record variants. It routes rows to their normalizer
// and names the default output files, records are otherwise accessed through
// their own fields.
type RecordType int

const (
	RecordContribution RecordType = iota
	RecordExpenditure
	RecordTransfer
	RecordCommitteeContribution
	RecordCommitteeExpenditure
)

func (t RecordType) String() string {
	switch t {
	case RecordExpenditure:
		return "expenditures"
	case RecordTransfer:
		return "transfers"
	case RecordCommitteeContribution:
		return "committee_contributions"
	case RecordCommitteeExpenditure:
		return "committee_expenditures"
	}
	return "contributions"
}

// Record is implemented by every record variant so the sinks can write any
// result set.
type Record interface {
	RecordType() RecordType
	// Header returns the output column names, in the order Values uses.
	Header() []string
	Values() []string
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

type Contribution struct {
	Recipient             string  `json:"recipient"`
	RecipientParty        string  `json:"recipient_party"`
	Date                  string  `json:"date"`
	Amount                float64 `json:"amount"`
	Type                  string  `json:"type"`
	ContributorName       string  `json:"contributor_name"`
	ContributorAddress    string  `json:"contributor_address"`
	ContributorAddress2   string  `json:"contributor_address2"`
	ContributorOccupation string  `json:"contributor_occupation"`
	InkindDescription     string  `json:"inkind_description"`
}

func (Contribution) RecordType() RecordType { return RecordContribution }

func (Contribution) Header() []string {
	return []string{
		"recipient", "recipient_party", "date", "amount", "type",
		"contributor_name", "contributor_address", "contributor_address2",
		"contributor_occupation", "inkind_description",
	}
}

func (c Contribution) Values() []string {
	return []string{
		c.Recipient, c.RecipientParty, c.Date, formatAmount(c.Amount), c.Type,
		c.ContributorName, c.ContributorAddress, c.ContributorAddress2,
		c.ContributorOccupation, c.InkindDescription,
	}
}

type Expenditure struct {
	Spender           string  `json:"spender"`
	SpenderParty      string  `json:"spender_party"`
	Date              string  `json:"date"`
	Amount            float64 `json:"amount"`
	Recipient         string  `json:"recipient"`
	RecipientAddress  string  `json:"recipient_address"`
	RecipientAddress2 string  `json:"recipient_address2"`
	Purpose           string  `json:"purpose"`
	Type              string  `json:"type"`
}

func (Expenditure) RecordType() RecordType { return RecordExpenditure }

func (Expenditure) Header() []string {
	return []string{
		"spender", "spender_party", "date", "amount", "recipient",
		"recipient_address", "recipient_address2", "purpose", "type",
	}
}

func (e Expenditure) Values() []string {
	return []string{
		e.Spender, e.SpenderParty, e.Date, formatAmount(e.Amount), e.Recipient,
		e.RecipientAddress, e.RecipientAddress2, e.Purpose, e.Type,
	}
}

type Transfer struct {
	TransferFrom         string  `json:"transfer_from"`
	TransferFromParty    string  `json:"transfer_from_party"`
	Date                 string  `json:"date"`
	Amount               float64 `json:"amount"`
	TransferTo           string  `json:"transfer_to"`
	TransferFromAddress  string  `json:"transfer_from_address"`
	TransferFromAddress2 string  `json:"transfer_from_address2"`
	AccountType          string  `json:"account_type"`
	TransferType         string  `json:"transfer_type"`
}

func (Transfer) RecordType() RecordType { return RecordTransfer }

func (Transfer) Header() []string {
	return []string{
		"transfer_from", "transfer_from_party", "date", "amount", "transfer_to",
		"transfer_from_address", "transfer_from_address2", "account_type", "transfer_type",
	}
}

func (t Transfer) Values() []string {
	return []string{
		t.TransferFrom, t.TransferFromParty, t.Date, formatAmount(t.Amount), t.TransferTo,
		t.TransferFromAddress, t.TransferFromAddress2, t.AccountType, t.TransferType,
	}
}

// CommitteeContribution is a contribution listed on a committee's own
// treasurer report.
type CommitteeContribution struct {
	ReportYear            string  `json:"report_year"`
	ReportType            string  `json:"report_type"`
	Date                  string  `json:"date"`
	Amount                float64 `json:"amount"`
	// Type and ItemType both carry the report's Typ column.
	Type                  string  `json:"type"`
	ContributorName       string  `json:"contributor_name"`
	ContributorAddress    string  `json:"contributor_address"`
	ContributorAddress2   string  `json:"contributor_address2"`
	ContributorOccupation string  `json:"contributor_occupation"`
	ItemType              string  `json:"item_type"`
	InkindDescription     string  `json:"inkind_description"`
}

func (CommitteeContribution) RecordType() RecordType { return RecordCommitteeContribution }

func (CommitteeContribution) Header() []string {
	return []string{
		"report_year", "report_type", "date", "amount", "type", "contributor_name",
		"contributor_address", "contributor_address2", "contributor_occupation",
		"item_type", "inkind_description",
	}
}

func (c CommitteeContribution) Values() []string {
	return []string{
		c.ReportYear, c.ReportType, c.Date, formatAmount(c.Amount), c.Type, c.ContributorName,
		c.ContributorAddress, c.ContributorAddress2, c.ContributorOccupation,
		c.ItemType, c.InkindDescription,
	}
}

type CommitteeExpenditure struct {
	ReportYear     string  `json:"report_year"`
	ReportType     string  `json:"report_type"`
	Date           string  `json:"date"`
	Amount         float64 `json:"amount"`
	PaidToName     string  `json:"paid_to_name"`
	PaidToAddress  string  `json:"paid_to_address"`
	PaidToAddress2 string  `json:"paid_to_address2"`
	Purpose        string  `json:"purpose"`
	ItemType       string  `json:"item_type"`
}

func (CommitteeExpenditure) RecordType() RecordType { return RecordCommitteeExpenditure }

func (CommitteeExpenditure) Header() []string {
	return []string{
		"report_year", "report_type", "date", "amount", "paid_to_name",
		"paid_to_address", "paid_to_address2", "purpose", "item_type",
	}
}

func (e CommitteeExpenditure) Values() []string {
	return []string{
		e.ReportYear, e.ReportType, e.Date, formatAmount(e.Amount), e.PaidToName,
		e.PaidToAddress, e.PaidToAddress2, e.Purpose, e.ItemType,
	}
}
