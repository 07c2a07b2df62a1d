package campaignfinance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sunscrape/pkg/textutil"

	"github.com/golang-module/carbon/v2"
)

var (
	errShortRow = errors.New("row has too few cells")
	errAmount   = errors.New("unparsable amount")
)

var amountReplacer = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseAmount parses a portal currency cell. Blank cells are 0, refunds keep
// their sign whether written "-$5.00" or "($5.00)".
func ParseAmount(text string) (float64, error) {
	text = strings.TrimSpace(text)
	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = strings.TrimSuffix(strings.TrimPrefix(text, "("), ")")
	}
	text = amountReplacer.Replace(text)
	if text == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %q", errAmount, text)
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}

// ParseDate converts the portal's MM/DD/YYYY into YYYY-MM-DD, returning ""
// for anything it cannot read.
func ParseDate(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, layout := range []string{portalDateLayout, "1/2/2006"} {
		c := carbon.ParseByLayout(text, layout, carbon.UTC)
		if c.Error != nil || c.IsInvalid() {
			continue
		}
		return c.ToDateString(carbon.UTC)
	}
	return ""
}

// SplitParty separates "DeSantis, Ron (REP)" into the bare name and a party
// name. Only the two major party designations are recognized.
func SplitParty(text string) (name, party string) {
	switch {
	case strings.Contains(text, "(DEM)"):
		party = "Democrat"
	case strings.Contains(text, "(REP)"):
		party = "Republican"
	}
	return textutil.StripParenthetical(text), party
}

// Normalize routes one raw row to the normalizer of its record type.
func Normalize(rt RecordType, row Row) (Record, error) {
	c := cells{layout: layoutFor(rt), values: row}
	if len(row) < c.layout.minCells {
		return nil, fmt.Errorf("%w: got %d, need %d", errShortRow, len(row), c.layout.minCells)
	}
	amount, err := ParseAmount(c.get(colAmount))
	if err != nil {
		return nil, err
	}

	switch rt {
	case RecordContribution:
		name, party := SplitParty(c.get(colCandidate))
		return Contribution{
			Recipient:             name,
			RecipientParty:        party,
			Date:                  ParseDate(c.get(colDate)),
			Amount:                amount,
			Type:                  c.get(colType),
			ContributorName:       c.get(colName),
			ContributorAddress:    c.get(colAddress),
			ContributorAddress2:   c.get(colAddress2),
			ContributorOccupation: c.get(colOccupation),
			InkindDescription:     c.get(colInkind),
		}, nil
	case RecordExpenditure:
		name, party := SplitParty(c.get(colCandidate))
		return Expenditure{
			Spender:           name,
			SpenderParty:      party,
			Date:              ParseDate(c.get(colDate)),
			Amount:            amount,
			Recipient:         c.get(colName),
			RecipientAddress:  c.get(colAddress),
			RecipientAddress2: c.get(colAddress2),
			Purpose:           c.get(colPurpose),
			Type:              c.get(colType),
		}, nil
	case RecordTransfer:
		name, party := SplitParty(c.get(colCandidate))
		return Transfer{
			TransferFrom:         name,
			TransferFromParty:    party,
			Date:                 ParseDate(c.get(colDate)),
			Amount:               amount,
			TransferTo:           c.get(colName),
			TransferFromAddress:  c.get(colAddress),
			TransferFromAddress2: c.get(colAddress2),
			AccountType:          c.get(colAccountType),
			TransferType:         c.get(colType),
		}, nil
	case RecordCommitteeContribution:
		return CommitteeContribution{
			ReportYear:            c.get(colReportYear),
			ReportType:            c.get(colReportType),
			Date:                  ParseDate(c.get(colDate)),
			Amount:                amount,
			Type:                  c.get(colType),
			ContributorName:       c.get(colName),
			ContributorAddress:    c.get(colAddress),
			ContributorAddress2:   c.get(colAddress2),
			ContributorOccupation: c.get(colOccupation),
			ItemType:              c.get(colType),
			InkindDescription:     c.get(colInkind),
		}, nil
	case RecordCommitteeExpenditure:
		return CommitteeExpenditure{
			ReportYear:     c.get(colReportYear),
			ReportType:     c.get(colReportType),
			Date:           ParseDate(c.get(colDate)),
			Amount:         amount,
			PaidToName:     c.get(colName),
			PaidToAddress:  c.get(colAddress),
			PaidToAddress2: c.get(colAddress2),
			Purpose:        c.get(colPurpose),
			ItemType:       c.get(colType),
		}, nil
	}
	return nil, fmt.Errorf("unknown record type %d", int(rt))
}

func normalizeAs[T Record](rt RecordType, row Row) (T, error) {
	var zero T
	record, err := Normalize(rt, row)
	if err != nil {
		return zero, err
	}
	typed, ok := record.(T)
	if !ok {
		return zero, fmt.Errorf("%s row normalized to %T", rt, record)
	}
	return typed, nil
}
