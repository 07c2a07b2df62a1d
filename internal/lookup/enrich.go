package lookup

import (
	"context"
	"sunscrape/internal/components/assert"
	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/scrapers/campaignfinance"
)

const (
	report_enrich_matched = "enricher.matched"
	report_enrich_total   = "enricher.total"
)

type EntityType string

const (
	EntityCandidate EntityType = "candidate"
	EntityCommittee EntityType = "committee"
)

const (
	MethodExact     = "exact"
	MethodComponent = "component"
	MethodOnline    = "online"
)

// Match is an entity a transaction name resolved to. The zero value means
// no match.
type Match struct {
	EntityType EntityType `json:"entity_type"`
	Account    string     `json:"entity_account"`
	Name       string     `json:"entity_name"`
	Method     string     `json:"match_method"`
	Confidence float64    `json:"match_confidence"`

	Candidate *Candidate `json:"candidate,omitempty"`
	Committee *Committee `json:"committee,omitempty"`
}

func (m Match) Found() bool {
	return m.Account != ""
}

// Header and Values render a match as extra csv columns next to a record.
func (Match) Header() []string {
	return []string{
		"entity_type", "entity_account", "entity_name", "entity_election_id",
		"entity_office", "entity_status", "entity_party", "entity_email",
		"entity_phone", "entity_type_detail",
	}
}

func (m Match) Values() []string {
	out := make([]string, len(m.Header()))
	if !m.Found() {
		return out
	}
	out[0] = string(m.EntityType)
	out[1] = m.Account
	out[2] = m.Name
	switch {
	case m.Candidate != nil:
		out[3] = m.Candidate.ElectionId
		out[4] = m.Candidate.Office
		out[5] = m.Candidate.Status
		out[6] = m.Candidate.PartyName
		out[7] = m.Candidate.Email
		out[8] = m.Candidate.Phone
		out[9] = string(EntityCandidate)
	case m.Committee != nil:
		out[5] = m.Committee.Status
		out[9] = m.Committee.Type
	}
	return out
}

// Subject is the name (and party, if listed) a transaction is attributed to.
type Subject struct {
	Name  string
	Party string
}

func subjectOf(record campaignfinance.Record) Subject {
	switch r := record.(type) {
	case campaignfinance.Contribution:
		return Subject{Name: r.Recipient, Party: r.RecipientParty}
	case campaignfinance.Expenditure:
		return Subject{Name: r.Spender, Party: r.SpenderParty}
	case campaignfinance.Transfer:
		return Subject{Name: r.TransferFrom, Party: r.TransferFromParty}
	case campaignfinance.CommitteeContribution:
		return Subject{Name: r.ContributorName}
	case campaignfinance.CommitteeExpenditure:
		return Subject{Name: r.PaidToName}
	}
	return Subject{}
}

// SubjectsOf returns the subject of every record: the recipient of a
// contribution, the spender of an expenditure, the origin of a transfer and
// the counterparty of a committee's own records.
func SubjectsOf[T campaignfinance.Record](records []T) []Subject {
	out := make([]Subject, len(records))
	for i, record := range records {
		out[i] = subjectOf(record)
	}
	return out
}

// Enricher resolves subjects against the candidate index first and the
// committee index second.
type Enricher struct {
	candidates *CandidateIndex
	committees *CommitteeIndex
	tel        telemetry.API
}

// NewEnricher creates an Enricher, committees may be nil to only match
// candidates.
func NewEnricher(candidates *CandidateIndex, committees *CommitteeIndex, tel telemetry.API) Enricher {
	assert.NotNil(candidates)
	assert.NotNil(tel)
	return Enricher{
		candidates: candidates,
		committees: committees,
		tel:        telemetry.NewScopedAPI("lookup", tel),
	}
}

// Resolve returns the best match for a single subject.
func (e Enricher) Resolve(ctx context.Context, subject Subject) Match {
	if subject.Name == "" {
		return Match{}
	}
	if matches := e.candidates.Find(subject.Name, subject.Party); len(matches) > 0 {
		return matches[0]
	}
	if e.committees == nil {
		return Match{}
	}
	if matches := e.committees.Find(ctx, subject.Name); len(matches) > 0 {
		return matches[0]
	}
	return Match{}
}

// Enrich returns one match per subject, in order. Subjects are grouped by
// name and party so every distinct pair is resolved once.
func (e Enricher) Enrich(ctx context.Context, subjects []Subject) []Match {
	out := make([]Match, len(subjects))
	resolved := map[Subject]Match{}
	matched := 0
	for i, subject := range subjects {
		if ctx.Err() != nil {
			break
		}
		match, ok := resolved[subject]
		if !ok {
			match = e.Resolve(ctx, subject)
			resolved[subject] = match
		}
		out[i] = match
		if match.Found() {
			matched++
		}
	}
	e.tel.ReportCount(report_enrich_total, int64(len(subjects)))
	e.tel.ReportCount(report_enrich_matched, int64(matched))
	return out
}

// EnrichRecords is Enrich over the subjects of a result set.
func EnrichRecords[T campaignfinance.Record](ctx context.Context, e Enricher, rs campaignfinance.ResultSet[T]) []Match {
	return e.Enrich(ctx, SubjectsOf(rs.Records))
}
