package lookup

import (
	"fmt"
	"sort"
	"strings"
	"sunscrape/internal/scrapers/campaignfinance"
	"sunscrape/pkg/textutil"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	confidenceExact     = 1.0
	confidenceComponent = 0.95
	confidenceOnline    = 0.9

	cacheSize = 4096
)

// Candidate is one row of the candidate list extract.
type Candidate struct {
	Account    string `json:"account"`
	First      string `json:"first"`
	Last       string `json:"last"`
	Middle     string `json:"middle"`
	ElectionId string `json:"election_id"`
	Office     string `json:"office"`
	Status     string `json:"status"`
	PartyName  string `json:"party_name"`
	PartyCode  string `json:"party_code"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

func (c Candidate) FullName() string {
	return textutil.FullName(c.First, c.Last, c.Middle)
}

var partyCodes = map[string]string{
	"democrat":   "DEM",
	"democratic": "DEM",
	"dem":        "DEM",
	"republican": "REP",
	"rep":        "REP",
}

// matchesParty reports whether the candidate belongs to party, an empty party
// matches every candidate.
func (c Candidate) matchesParty(party string) bool {
	party = strings.ToLower(strings.TrimSpace(party))
	if party == "" {
		return true
	}
	name := strings.ToLower(strings.TrimSpace(c.PartyName))
	if name != "" && (strings.Contains(name, party) || strings.Contains(party, name)) {
		return true
	}
	code, ok := partyCodes[party]
	return ok && strings.EqualFold(strings.TrimSpace(c.PartyCode), code)
}

type componentKey struct {
	first string
	last  string
}

type candidateQuery struct {
	name  string
	party string
}

// CandidateIndex resolves transaction names to candidates of the bulk
// candidate list. It is not safe for concurrent use.
type CandidateIndex struct {
	candidates   map[string]Candidate
	byName       map[string][]string
	byComponents map[componentKey][]string
	cache        *lru.Cache[candidateQuery, []Match]
}

func NewCandidateIndex() *CandidateIndex {
	cache, err := lru.New[candidateQuery, []Match](cacheSize)
	if err != nil {
		panic(err)
	}
	return &CandidateIndex{
		candidates:   map[string]Candidate{},
		byName:       map[string][]string{},
		byComponents: map[componentKey][]string{},
		cache:        cache,
	}
}

func (idx *CandidateIndex) Len() int {
	return len(idx.candidates)
}

// Get returns the candidate with the given account number.
func (idx *CandidateIndex) Get(account string) (Candidate, bool) {
	c, ok := idx.candidates[account]
	return c, ok
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// Add indexes a single candidate, a candidate with an account number that
// was already added replaces the previous one.
func (idx *CandidateIndex) Add(c Candidate) {
	c.Account = strings.TrimSpace(c.Account)
	if c.Account == "" {
		return
	}
	idx.candidates[c.Account] = c
	idx.cache.Purge()

	if full := textutil.NormalizeName(c.FullName()); full != "" {
		idx.byName[full] = appendUnique(idx.byName[full], c.Account)
	}
	first := textutil.NormalizeName(c.First)
	last := textutil.NormalizeName(c.Last)
	if first != "" && last != "" {
		key := componentKey{first: first, last: last}
		idx.byComponents[key] = appendUnique(idx.byComponents[key], c.Account)
	}
}

// Load indexes every row of a candidate list extract and returns how many
// candidates were added, rows without an account number are skipped.
func (idx *CandidateIndex) Load(extract campaignfinance.Extract) (int, error) {
	columns := newColumns(extract)
	if !columns.has("AcctNum") {
		return 0, fmt.Errorf("candidate extract: missing AcctNum column in %v", extract.Header)
	}

	loaded := 0
	for _, row := range extract.Rows {
		c := Candidate{
			Account:    columns.get(row, "AcctNum"),
			First:      columns.get(row, "NameFirst"),
			Last:       columns.get(row, "NameLast"),
			Middle:     columns.get(row, "NameMiddle"),
			ElectionId: columns.get(row, "ElectionID", campaignfinance.SourceElectionColumn),
			Office:     columns.get(row, "OfficeDesc"),
			Status:     columns.get(row, "StatusDesc"),
			PartyName:  columns.get(row, "PartyName"),
			PartyCode:  columns.get(row, "PartyCode"),
			Email:      columns.get(row, "Email"),
			Phone:      columns.get(row, "Phone"),
		}
		if c.Account == "" {
			continue
		}
		idx.Add(c)
		loaded++
	}
	return loaded, nil
}

func (idx *CandidateIndex) match(c Candidate, method string, confidence float64) Match {
	return Match{
		EntityType: EntityCandidate,
		Account:    c.Account,
		Name:       c.FullName(),
		Method:     method,
		Confidence: confidence,
		Candidate:  &c,
	}
}

// Find returns the candidates matching name, best match first. An exact
// match on the normalized "Last, First Middle" name ranks above a match on
// first and last name alone. A non-empty party drops candidates of other
// parties.
func (idx *CandidateIndex) Find(name, party string) []Match {
	normalized := textutil.NormalizeName(name)
	if normalized == "" {
		return nil
	}
	query := candidateQuery{name: normalized, party: party}
	if cached, ok := idx.cache.Get(query); ok {
		return cached
	}

	var matches []Match
	seen := map[string]bool{}
	collect := func(accounts []string, method string, confidence float64) {
		for _, account := range accounts {
			if seen[account] {
				continue
			}
			c := idx.candidates[account]
			if !c.matchesParty(party) {
				continue
			}
			seen[account] = true
			matches = append(matches, idx.match(c, method, confidence))
		}
	}

	collect(idx.byName[normalized], MethodExact, confidenceExact)
	first, last, _ := textutil.SplitName(name)
	if first != "" && last != "" {
		collect(idx.byComponents[componentKey{first: first, last: last}], MethodComponent, confidenceComponent)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	idx.cache.Add(query, matches)
	return matches
}
