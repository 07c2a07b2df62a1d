package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sunscrape/internal/components/assert"
	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/scrapers/campaignfinance"
	"sunscrape/pkg/textutil"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	report_committee_online = "committee_index.online-search"
	report_committee_load   = "committee_index.load"
)

// Committee is one row of the active committee extract, or a committee
// resolved through the portal's name search.
type Committee struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Status  string `json:"status"`

	Details *campaignfinance.CommitteeDetails `json:"details,omitempty"`
}

// CommitteeSearcher resolves committees the bulk extract does not list,
// campaignfinance.Scraper implements it.
type CommitteeSearcher interface {
	FindCommittee(ctx context.Context, name string) (campaignfinance.CommitteeMatch, error)
	CommitteeDetails(ctx context.Context, account string) (campaignfinance.CommitteeDetails, error)
}

// CommitteeIndex resolves transaction names to committees by their
// normalized name. It is not safe for concurrent use.
type CommitteeIndex struct {
	committees map[string]Committee
	byName     map[string][]string
	cache      *lru.Cache[string, []Match]
	searcher   CommitteeSearcher
	tel        telemetry.API
}

// NewCommitteeIndex creates an empty index, searcher may be nil to disable
// the online fallback.
func NewCommitteeIndex(searcher CommitteeSearcher, tel telemetry.API) *CommitteeIndex {
	assert.NotNil(tel)

	cache, err := lru.New[string, []Match](cacheSize)
	if err != nil {
		panic(err)
	}
	return &CommitteeIndex{
		committees: map[string]Committee{},
		byName:     map[string][]string{},
		cache:      cache,
		searcher:   searcher,
		tel:        telemetry.NewScopedAPI("lookup", tel),
	}
}

func (idx *CommitteeIndex) Len() int {
	return len(idx.committees)
}

func (idx *CommitteeIndex) Get(account string) (Committee, bool) {
	c, ok := idx.committees[account]
	return c, ok
}

// Add indexes a committee, committees without an account number or name are
// ignored.
func (idx *CommitteeIndex) Add(c Committee) {
	c.Account = strings.TrimSpace(c.Account)
	key := textutil.NormalizeEntityName(c.Name)
	if c.Account == "" || key == "" {
		return
	}
	idx.committees[c.Account] = c
	idx.byName[key] = appendUnique(idx.byName[key], c.Account)
	idx.cache.Remove(key)
}

// Load indexes every row of an active committee extract.
func (idx *CommitteeIndex) Load(extract campaignfinance.Extract) (int, error) {
	columns := newColumns(extract)
	nameColumns := []string{"Committee Name", "CommitteeName", "Name", "ComName"}
	if !columns.has("AcctNum") || !columns.has(nameColumns...) {
		return 0, fmt.Errorf("committee extract: missing AcctNum or name column in %v", extract.Header)
	}

	loaded := 0
	for _, row := range extract.Rows {
		c := Committee{
			Account: columns.get(row, "AcctNum"),
			Name:    columns.get(row, nameColumns...),
			Type:    columns.get(row, "Type", "Committee Type", "TypeDesc"),
			Status:  columns.get(row, "Status", "Committee Status"),
		}
		if c.Account == "" || c.Name == "" {
			continue
		}
		idx.Add(c)
		loaded++
	}
	idx.tel.ReportCount(report_committee_load, int64(loaded))
	return loaded, nil
}

func committeeMatch(c Committee, method string, confidence float64) Match {
	return Match{
		EntityType: EntityCommittee,
		Account:    c.Account,
		Name:       c.Name,
		Method:     method,
		Confidence: confidence,
		Committee:  &c,
	}
}

// Find returns the committees whose normalized name equals name's. When none
// is indexed and a searcher is configured, the portal's committee search is
// consulted and its result is added to the index.
func (idx *CommitteeIndex) Find(ctx context.Context, name string) []Match {
	key := textutil.NormalizeEntityName(name)
	if key == "" {
		return nil
	}
	if cached, ok := idx.cache.Get(key); ok {
		return cached
	}

	var matches []Match
	for _, account := range idx.byName[key] {
		matches = append(matches, committeeMatch(idx.committees[account], MethodExact, confidenceExact))
	}
	if len(matches) == 0 && idx.searcher != nil {
		found, err := idx.searchOnline(ctx, name)
		if err != nil && !errors.Is(err, campaignfinance.ErrCommitteeNotFound) {
			// transient failures are retried on the next lookup
			idx.tel.ReportWarning(report_committee_online, err, name)
			return nil
		}
		if err == nil {
			idx.Add(found)
			matches = append(matches, committeeMatch(found, MethodOnline, confidenceOnline))
		}
	}

	idx.cache.Add(key, matches)
	return matches
}

func (idx *CommitteeIndex) searchOnline(ctx context.Context, name string) (Committee, error) {
	match, err := idx.searcher.FindCommittee(ctx, name)
	if err != nil {
		return Committee{}, err
	}
	details, err := idx.searcher.CommitteeDetails(ctx, match.Account)
	if err != nil {
		return Committee{}, fmt.Errorf("details of %s: %w", match.Account, err)
	}
	committee := Committee{
		Account: match.Account,
		Name:    match.Name,
		Type:    details.Type,
		Status:  details.Status,
		Details: &details,
	}
	if committee.Name == "" {
		committee.Name = details.Name
	}
	return committee, nil
}
